package auth

import (
	"ScholarsBox/internal/config"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service *AdminService
	config  *config.AppConfig
	logger  *zap.Logger
}

func NewAuthHandler(service *AdminService, cfg *config.AppConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, config: cfg, logger: logger}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}

	admin, token, err := h.service.Authenticate(c.Request().Context(), cred)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		h.logger.Error("Login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	c.SetCookie(h.sessionCookie(token, int(h.service.tokens.TTL().Seconds())))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    SessionUser{ID: admin.ID.Hex(), Email: admin.Email, Role: admin.Role},
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) CheckAuth(c echo.Context) error {
	claims, ok := c.Get("user").(*JWTClaims)
	if !ok || claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Authenticated",
		"user":    SessionUser{ID: claims.UserID, Email: claims.Email, Role: claims.Role},
	})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	admin, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrAdminExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		h.logger.Error("Admin registration failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error"})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"message": "Admin created successfully", "user": admin})
}

func (h *AuthHandler) Users(c echo.Context) error {
	admins, err := h.service.ListAdmins(c.Request().Context())
	if err != nil {
		h.logger.Error("Listing admins failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error fetching users"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": admins})
}
