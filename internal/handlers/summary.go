package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/thorfin/insights-backend/internal/apierr"
	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/services"
)

var errSummarizerUnavailable = errors.New("AI summarizer is not configured")

type SummaryHandler struct {
	log            *logger.Logger
	datasetService services.DatasetService
	summarizer     services.Summarizer
	tuning         config.TuningConfig
}

func NewSummaryHandler(log *logger.Logger, dsvc services.DatasetService, summarizer services.Summarizer, cfg config.Config) *SummaryHandler {
	return &SummaryHandler{
		log:            log.With("handler", "SummaryHandler"),
		datasetService: dsvc,
		summarizer:     summarizer,
		tuning:         cfg.Tuning,
	}
}

// POST /api/datasets/:id/products/:product/summary
// Body: {"filters": FilterState, "instruction": optional}. Summarizes the
// selected product's reviews within the filtered view.
func (h *SummaryHandler) Summarize(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if h.summarizer == nil {
		RespondDomainError(c, apierr.Unavailable(apierr.CodeAINotConfigured, errSummarizerUnavailable))
		return
	}

	var body struct {
		Filters     domain.FilterState `json:"filters"`
		Instruction string             `json:"instruction"`
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
	product := c.Param("product")
	reviews := view.SelectProduct(product).ReviewTexts(h.tuning.SummaryReviewCap)

	summary, err := h.summarizer.Summarize(c.Request.Context(), reviews, body.Instruction)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"product": product, "summary": summary})
}
