package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thorfin/insights-backend/internal/apierr"
	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/services"
)

type ChartHandler struct {
	log            *logger.Logger
	datasetService services.DatasetService
	renderer       *charts.Renderer
}

func NewChartHandler(log *logger.Logger, dsvc services.DatasetService, renderer *charts.Renderer) *ChartHandler {
	return &ChartHandler{
		log:            log.With("handler", "ChartHandler"),
		datasetService: dsvc,
		renderer:       renderer,
	}
}

// POST /api/datasets/:id/charts/:type
// Body: {"filters": FilterState, "product": optional}. Responds with the
// rendered PNG, or 422 when the chart is not applicable to the view.
func (h *ChartHandler) Render(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	chartType := c.Param("type")
	if !charts.KnownType(chartType) {
		RespondDomainError(c, apierr.BadRequest(apierr.CodeUnknownChartType, fmt.Errorf("unknown chart type %q", chartType)))
		return
	}

	var body struct {
		Filters domain.FilterState `json:"filters"`
		Product string             `json:"product"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondDomainError(c, apierr.BadRequest(apierr.CodeInvalidBody, err))
		return
	}

	view, err := h.datasetService.Filtered(id, body.Filters)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if body.Product != "" {
		view = view.SelectProduct(body.Product)
	}

	art, err := h.renderer.Render(view, chartType)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", art.PNG)
}
