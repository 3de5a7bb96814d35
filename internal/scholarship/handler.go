package scholarship

import (
	"ScholarsBox/internal/config"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ScholarshipHandler serves the import, student list and result endpoints.
type ScholarshipHandler struct {
	service  *ScholarshipService
	importer *Importer
	config   *config.AppConfig
	logger   *zap.Logger
}

func NewScholarshipHandler(service *ScholarshipService, importer *Importer, cfg *config.AppConfig, logger *zap.Logger) *ScholarshipHandler {
	return &ScholarshipHandler{service: service, importer: importer, config: cfg, logger: logger}
}

type checkResultRequest struct {
	Email string `json:"email" query:"email" form:"email"`
}

// Import accepts one CSV upload under "file" or "files" and reconciles it
// with the record store.
func (h *ScholarshipHandler) Import(c echo.Context) error {
	fh, err := uploadedFile(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only CSV files are allowed"})
	}
	if fh.Size > h.config.MaxUploadBytes() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("File exceeds the %dMB limit", h.config.MaxUploadMB)})
	}

	path, err := h.saveUpload(fh)
	if err != nil {
		h.logger.Error("Failed to store upload", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error"})
	}

	result, err := h.importer.ImportFile(c.Request().Context(), path)
	if err != nil {
		if errors.Is(err, ErrMalformedCSV) || errors.Is(err, ErrEmptyCSV) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		h.logger.Error("CSV import failed", zap.String("file", fh.Filename), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error while importing scholarships"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "Scholarships imported successfully",
		"updated":        result.UpdatedCount,
		"inserted":       result.InsertedCount,
		"invalidRecords": result.InvalidRecords,
	})
}

func uploadedFile(c echo.Context) (*multipart.FileHeader, error) {
	if fh, err := c.FormFile("file"); err == nil {
		return fh, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	if files := form.File["files"]; len(files) > 0 {
		return files[0], nil
	}
	return nil, http.ErrMissingFile
}

// saveUpload copies the upload to a uniquely named file in the upload dir.
func (h *ScholarshipHandler) saveUpload(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.config.UploadDir, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(h.config.UploadDir, uuid.NewString()+".csv")
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// StudentList returns one record when email is given, otherwise a page.
func (h *ScholarshipHandler) StudentList(c echo.Context) error {
	ctx := c.Request().Context()
	if email := c.QueryParam("email"); email != "" {
		rec, err := h.service.Get(ctx, email)
		if err != nil {
			return h.storeError(c, err)
		}
		return c.JSON(http.StatusOK, rec)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	result, err := h.service.List(ctx, ListQuery{Page: page, Limit: limit, Search: c.QueryParam("search")})
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ScholarshipHandler) CreateStudent(c echo.Context) error {
	var rec ScholarshipRecord
	if err := c.Bind(&rec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.Create(c.Request().Context(), &rec); err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *ScholarshipHandler) UpdateStudent(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email query parameter is required for updating a student"})
	}
	var rec ScholarshipRecord
	if err := (&echo.DefaultBinder{}).BindBody(c, &rec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	updated, err := h.service.Replace(c.Request().Context(), email, &rec)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ScholarshipHandler) DeleteStudent(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email query parameter is required for deleting a student"})
	}
	if err := h.service.Delete(c.Request().Context(), email); err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Student deleted successfully"})
}

// CheckResult is the public lookup; it only discloses the selection flag.
func (h *ScholarshipHandler) CheckResult(c echo.Context) error {
	var req checkResultRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email is required"})
	}
	selected, err := h.service.CheckResult(c.Request().Context(), req.Email)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"isSelected": selected})
}

func (h *ScholarshipHandler) storeError(c echo.Context, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Validation failed", "details": verr.Problems})
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Student not found"})
	case errors.Is(err, ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("Scholarship store error", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error"})
	}
}
