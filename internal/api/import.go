package api

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/csvimport"
	"github.com/johnahull/AthleteMetrics-sub012/internal/service"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ImportRoster accepts a multipart form with a "file" CSV part and a
// "mapping" part holding a JSON object of CSV header to roster field.
func (h *Handler) ImportRoster(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	mapping, svcErr := mappingFromForm(e)
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}

	file, svcErr := h.openUpload(e, "file")
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}
	defer file.Close()

	orgID := ClaimsFromContext(e).OrganizationID

	l.Info("importing roster", zap.String("organization_id", orgID))

	report, err := h.importer.ImportRoster(e.Request().Context(), orgID, io.LimitReader(file, h.maxUploadBytes), mapping)
	if err != nil {
		l.Error("roster import failed", zap.String("organization_id", orgID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("roster import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped))

	return e.JSON(http.StatusOK, report)
}

func (h *Handler) ImportMeasurements(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	mapping, svcErr := mappingFromForm(e)
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}

	file, svcErr := h.openUpload(e, "file")
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}
	defer file.Close()

	orgID := ClaimsFromContext(e).OrganizationID

	l.Info("importing measurements", zap.String("organization_id", orgID))

	report, err := h.importer.ImportMeasurements(e.Request().Context(), orgID, io.LimitReader(file, h.maxUploadBytes), mapping)
	if err != nil {
		l.Error("measurement import failed", zap.String("organization_id", orgID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("measurement import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped))

	return e.JSON(http.StatusOK, report)
}

// ImportPhoto accepts a "photo" part (JPEG or PNG) and an optional
// "recorded_at" date for the extracted measurements.
func (h *Handler) ImportPhoto(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	data, svcErr := h.readUpload(e, "photo")
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return h.transportError(e, service.NewFieldError(
			service.ErrorCodeUnsupportedMedia, "photo", "expected a JPEG or PNG image"))
	}

	recordedAt := time.Now()
	if raw := e.FormValue("recorded_at"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return h.transportError(e, service.NewFieldError(
				service.ErrorCodeInvalidBody, "recorded_at", "expected RFC 3339 or YYYY-MM-DD"))
		}
		recordedAt = t
	}

	orgID := ClaimsFromContext(e).OrganizationID

	l.Info("importing photo",
		zap.String("organization_id", orgID),
		zap.Int("bytes", len(data)))

	report, err := h.importer.ImportPhoto(e.Request().Context(), orgID, data, recordedAt)
	if err != nil {
		l.Error("photo import failed", zap.String("organization_id", orgID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("photo import finished",
		zap.Int("imported", report.Imported),
		zap.Float64("confidence", report.Confidence))

	return e.JSON(http.StatusOK, report)
}

func mappingFromForm(e echo.Context) (csvimport.Mapping, *service.Error) {
	raw := e.FormValue("mapping")
	if raw == "" {
		return nil, service.NewFieldError(service.ErrorCodeInvalidBody, "mapping", "column mapping is required")
	}

	var mapping csvimport.Mapping
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, service.NewFieldError(service.ErrorCodeInvalidBody, "mapping", "mapping must be a JSON object of header to field")
	}
	return mapping, nil
}

func (h *Handler) openUpload(e echo.Context, field string) (multipart.File, *service.Error) {
	header, err := e.FormFile(field)
	if err != nil {
		return nil, service.NewFieldError(service.ErrorCodeInvalidBody, field, "file upload is required")
	}
	if header.Size > h.maxUploadBytes {
		return nil, service.NewServiceError(service.ErrorCodeUploadTooLarge, "upload exceeds the size limit")
	}

	file, err := header.Open()
	if err != nil {
		return nil, service.NewServiceError(service.ErrorCodeUnspecified, "failed to read upload")
	}
	return file, nil
}

func (h *Handler) readUpload(e echo.Context, field string) ([]byte, *service.Error) {
	file, svcErr := h.openUpload(e, field)
	if svcErr != nil {
		return nil, svcErr
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, service.NewServiceError(service.ErrorCodeUnspecified, "failed to read upload")
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, service.NewServiceError(service.ErrorCodeUploadTooLarge, "upload exceeds the size limit")
	}
	return data, nil
}
