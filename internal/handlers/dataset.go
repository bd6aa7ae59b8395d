package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thorfin/insights-backend/internal/apierr"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/metrics"
	"github.com/thorfin/insights-backend/internal/services"
)

type DatasetHandler struct {
	log            *logger.Logger
	datasetService services.DatasetService
}

func NewDatasetHandler(log *logger.Logger, dsvc services.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		log:            log.With("handler", "DatasetHandler"),
		datasetService: dsvc,
	}
}

type datasetSummary struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Rows     int           `json:"rows"`
	Columns  []string      `json:"columns"`
	Bounds   datasetBounds `json:"bounds"`
	LoadedAt time.Time     `json:"loaded_at"`
}

type datasetBounds struct {
	PriceMin  *float64   `json:"price_min"`
	PriceMax  *float64   `json:"price_max"`
	RatingMin *float64   `json:"rating_min"`
	RatingMax *float64   `json:"rating_max"`
	DateMin   *time.Time `json:"date_min"`
	DateMax   *time.Time `json:"date_max"`
}

func summarize(ds *domain.Dataset) datasetSummary {
	return datasetSummary{
		ID:      ds.ID.String(),
		Name:    ds.Name,
		Rows:    ds.Len(),
		Columns: ds.Columns,
		Bounds: datasetBounds{
			PriceMin:  ds.Bounds.PriceMin,
			PriceMax:  ds.Bounds.PriceMax,
			RatingMin: ds.Bounds.RatingMin,
			RatingMax: ds.Bounds.RatingMax,
			DateMin:   ds.Bounds.DateMin,
			DateMax:   ds.Bounds.DateMax,
		},
		LoadedAt: ds.LoadedAt,
	}
}

// POST /api/datasets
// Multipart upload of a CSV/Excel/JSON file under the "file" field.
func (h *DatasetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondDomainError(c, apierr.BadRequest(apierr.CodeMissingFile, fmt.Errorf("multipart field 'file' required: %w", err)))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondDomainError(c, apierr.BadRequest(apierr.CodeMissingFile, err))
		return
	}
	defer f.Close()

	ds, err := h.datasetService.Load(fileHeader.Filename, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summarize(ds))
}

// GET /api/datasets/:id
func (h *DatasetHandler) Get(c *gin.Context) {
	ds, ok := h.lookup(c)
	if !ok {
		return
	}
	RespondOK(c, summarize(ds))
}

// DELETE /api/datasets/:id
func (h *DatasetHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.datasetService.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/datasets/:id/metrics
// Body: {"filters": FilterState}. Returns the snapshot of the filtered view.
func (h *DatasetHandler) Metrics(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body struct {
		Filters domain.FilterState `json:"filters"`
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
	RespondOK(c, metrics.Compute(view))
}

// GET /api/datasets/:id/products
func (h *DatasetHandler) Products(c *gin.Context) {
	ds, ok := h.lookup(c)
	if !ok {
		return
	}
	RespondOK(c, gin.H{"products": ds.Products()})
}

func (h *DatasetHandler) lookup(c *gin.Context) (*domain.Dataset, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	ds, err := h.datasetService.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return nil, false
	}
	return ds, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondDomainError(c, apierr.BadRequest(apierr.CodeInvalidDatasetID, err))
		return uuid.Nil, false
	}
	return id, true
}
