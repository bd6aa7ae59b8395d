package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thorfin/insights-backend/internal/apierr"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/services"
)

type ReportHandler struct {
	log            *logger.Logger
	datasetService services.DatasetService
	reportService  services.ReportService
}

func NewReportHandler(log *logger.Logger, dsvc services.DatasetService, rsvc services.ReportService) *ReportHandler {
	return &ReportHandler{
		log:            log.With("handler", "ReportHandler"),
		datasetService: dsvc,
		reportService:  rsvc,
	}
}

// POST /api/datasets/:id/products/:product/report
// Body: {"filters": FilterState, "format": "html"|"pdf", "summary": optional,
// "instruction": optional}. Writes the report under the export directory and
// streams it back as a download.
func (h *ReportHandler) Generate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Filters     domain.FilterState `json:"filters"`
		Format      string             `json:"format"`
		Summary     string             `json:"summary"`
		Instruction string             `json:"instruction"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondDomainError(c, apierr.BadRequest(apierr.CodeInvalidBody, err))
		return
	}
	format, err := services.ParseReportFormat(body.Format)
	if err != nil {
		RespondDomainError(c, apierr.BadRequest(apierr.CodeInvalidFormat, err))
		return
	}

	view, err := h.datasetService.Filtered(id, body.Filters)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	product := c.Param("product")
	view = view.SelectProduct(product)

	res, err := h.reportService.Generate(c.Request.Context(), services.ReportRequest{
		View:        view,
		Product:     product,
		Format:      format,
		Summary:     body.Summary,
		Instruction: body.Instruction,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	contentType := "text/html; charset=utf-8"
	if format == services.FormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, contentType, res.Bytes)
}
