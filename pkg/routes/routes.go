package pkg

import (
	"ScholarsBox/internal/analytics"
	"ScholarsBox/internal/auth"
	"ScholarsBox/internal/config"
	"ScholarsBox/internal/scholarship"
	"ScholarsBox/pkg/middleware"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var EchoModules = fx.Module("echo",
	fx.Provide(config.NewAppConfig),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(NewEchoServer),
	fx.Provide(middleware.NewRBAC),
	fx.Provide(func(r *middleware.RBAC) analytics.Authorizer { return r }),
	fx.Provide(auth.NewTokenManager),
	fx.Provide(fx.Annotate(auth.NewAdminRepository, fx.As(new(auth.AdminStore)))),
	fx.Provide(auth.NewAdminService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(scholarship.NewScholarshipRepository),
	fx.Provide(func(r *scholarship.ScholarshipRepository) scholarship.Store { return r }),
	fx.Provide(func(r *scholarship.ScholarshipRepository) analytics.RecordFinder { return r }),
	fx.Provide(scholarship.NewImporter),
	fx.Provide(scholarship.NewScholarshipService),
	fx.Provide(scholarship.NewScholarshipHandler),
	fx.Provide(analytics.NewAnalyticsService),
	fx.Provide(analytics.NewAnalyticsHandler),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle, cfg *config.AppConfig, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	middleware.SetupMiddleware(e, cfg, logger)
	addr := ":" + cfg.Port
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Server running", zap.String("addr", "http://localhost"+addr))
			go func() {
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	fx.In

	Auth        *auth.AuthHandler
	Scholarship *scholarship.ScholarshipHandler
	Analytics   *analytics.AnalyticsHandler
	Tokens      *auth.TokenManager
	RBAC        *middleware.RBAC
	Config      *config.AppConfig
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	api := e.Group("/api")
	api.POST("/admin/login", h.Auth.Login)
	api.POST("/admin/logout", h.Auth.Logout)
	api.GET("/check-result", h.Scholarship.CheckResult)
	api.POST("/check-result", h.Scholarship.CheckResult)

	protected := api.Group("", middleware.JWTMiddleware(h.Tokens), h.RBAC.Middleware)

	admin := protected.Group("/admin")
	admin.GET("/check-auth", h.Auth.CheckAuth)
	admin.GET("/users", h.Auth.Users)
	admin.POST("/register", h.Auth.Register)
	admin.GET("/dashboard", h.Analytics.Dashboard)
	admin.GET("/analytics", h.Analytics.Analytics)

	scholarships := protected.Group("/scholarships")
	scholarships.POST("/import", h.Scholarship.Import,
		echomw.BodyLimit(fmt.Sprintf("%dM", h.Config.MaxUploadMB+1)))
	scholarships.GET("/studentlist", h.Scholarship.StudentList)
	scholarships.POST("/studentlist", h.Scholarship.CreateStudent)
	scholarships.PUT("/studentlist", h.Scholarship.UpdateStudent)
	scholarships.DELETE("/studentlist", h.Scholarship.DeleteStudent)
}
