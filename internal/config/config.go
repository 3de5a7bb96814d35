package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// AppConfig holds the runtime settings read from the environment.
type AppConfig struct {
	Port           string
	JWTSecret      string
	CORSOrigins    []string
	UploadDir      string
	MaxUploadMB    int64
	CookieSecure   bool
	RBACPolicyFile string
	LogLevel       string
}

func NewAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:    10,
		CookieSecure:   true,
		RBACPolicyFile: os.Getenv("RBAC_POLICY_FILE"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || mb <= 0 {
			return nil, errors.New("MAX_UPLOAD_MB must be a positive integer")
		}
		cfg.MaxUploadMB = mb
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("COOKIE_SECURE must be a boolean")
		}
		cfg.CookieSecure = secure
	}
	return cfg, nil
}

// MaxUploadBytes is the upload cap applied to CSV imports.
func (c *AppConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
