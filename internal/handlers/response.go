package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thorfin/insights-backend/internal/apierr"
	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/dataset"
	"github.com/thorfin/insights-backend/internal/report"
	"github.com/thorfin/insights-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondDomainError maps the error taxonomy onto HTTP statuses. Every
// user-triggered action funnels its failures through here; nothing crashes
// the process.
func RespondDomainError(c *gin.Context, err error) {
	var loadErr *dataset.LoadError
	var extErr *services.ExternalServiceError
	var expErr *report.ExportError
	var apiErr *apierr.Error

	switch {
	case errors.As(err, &loadErr):
		RespondError(c, http.StatusBadRequest, "load_failed", err)
	case errors.Is(err, services.ErrDatasetNotFound):
		RespondError(c, http.StatusNotFound, "dataset_not_found", err)
	case errors.Is(err, charts.ErrNotApplicable):
		RespondError(c, http.StatusUnprocessableEntity, "chart_not_applicable", err)
	case errors.Is(err, services.ErrInsufficientInput):
		RespondError(c, http.StatusUnprocessableEntity, "insufficient_reviews", err)
	case errors.As(err, &extErr):
		RespondError(c, http.StatusBadGateway, "ai_service_error", err)
	case errors.As(err, &expErr):
		RespondError(c, http.StatusInternalServerError, "export_failed", err)
	case errors.As(err, &apiErr):
		RespondError(c, apiErr.Status, apiErr.Code, err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
