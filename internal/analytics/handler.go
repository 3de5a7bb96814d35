package analytics

import (
	"ScholarsBox/internal/auth"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service *AnalyticsService
	authz   Authorizer
	logger  *zap.Logger
}

func NewAnalyticsHandler(service *AnalyticsService, authz Authorizer, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, authz: authz, logger: logger}
}

// Analytics answers GET /api/admin/analytics. Applicant identities are
// redacted for roles without the read-pii capability.
func (h *AnalyticsHandler) Analytics(c echo.Context) error {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}

	summary, err := h.service.Analytics(c.Request().Context(), ParseFilter(c.QueryParams()))
	if err != nil {
		h.logger.Error("Analytics query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error fetching analytics"})
	}

	Redact(summary, h.authz.Can(claims.Role, ApplicantsObject, ReadPIIAction))
	return c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	counts, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		h.logger.Error("Dashboard counts failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error fetching scholarship count"})
	}
	return c.JSON(http.StatusOK, counts)
}
