// Package charts rasterizes the dashboard chart set to PNG images. Every
// chart declares its required columns up front and reports ErrNotApplicable
// when the dataset cannot feed it; a chart is never rendered empty.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
)

// ErrNotApplicable marks an unmet chart precondition. It is a skip signal,
// not a failure; callers omit the chart and move on.
var ErrNotApplicable = errors.New("chart not applicable to this dataset")

// Chart type identifiers accepted by Render.
const (
	TypePriceHistogram     = "price_histogram"
	TypeRatingHistogram    = "rating_histogram"
	TypePriceBox           = "price_box"
	TypeRatingBox          = "rating_box"
	TypeRatingViolin       = "rating_violin"
	TypePriceRatingScatter = "price_rating_scatter"
	TypeProductPie         = "product_pie"
	TypeProductDonut       = "product_donut"
	TypeProductPareto      = "product_pareto"
	TypeCorrelationHeatmap = "correlation_heatmap"
	TypeWordcloud          = "wordcloud"
)

// Artifact is one rendered chart image. It has no identity beyond being
// embedded once per report or returned once per request.
type Artifact struct {
	Type   string
	PNG    []byte
	Width  int
	Height int
}

type Renderer struct {
	log    *logger.Logger
	tuning config.TuningConfig

	// font sizes titles, axis labels and wordcloud glyphs. Defaults to the
	// embedded Go Regular face; CHART_FONT swaps in a TTF from disk.
	font *truetype.Font
}

func NewRenderer(log *logger.Logger, cfg config.Config) (*Renderer, error) {
	r := &Renderer{
		log:    log.With("component", "ChartRenderer"),
		tuning: cfg.Tuning,
	}
	raw := goregular.TTF
	if cfg.Charts.FontPath != "" {
		custom, err := os.ReadFile(cfg.Charts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("read chart font: %w", err)
		}
		raw = custom
		r.log.Info("Chart font loaded", "path", cfg.Charts.FontPath)
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse chart font: %w", err)
	}
	r.font = f
	return r, nil
}

// Render dispatches to the renderer for the given chart type.
func (r *Renderer) Render(ds *domain.Dataset, chartType string) (*Artifact, error) {
	switch chartType {
	case TypePriceHistogram:
		return r.PriceHistogram(ds)
	case TypeRatingHistogram:
		return r.RatingHistogram(ds)
	case TypePriceBox:
		return r.PriceBox(ds)
	case TypeRatingBox:
		return r.RatingBoxByProduct(ds)
	case TypeRatingViolin:
		return r.RatingViolinByProduct(ds)
	case TypePriceRatingScatter:
		return r.PriceRatingScatter(ds)
	case TypeProductPie:
		return r.ProductPie(ds)
	case TypeProductDonut:
		return r.ProductDonut(ds)
	case TypeProductPareto:
		return r.ProductPareto(ds)
	case TypeCorrelationHeatmap:
		return r.CorrelationHeatmap(ds)
	case TypeWordcloud:
		return r.Wordcloud(ds)
	default:
		return nil, fmt.Errorf("unknown chart type %q", chartType)
	}
}

// KnownType reports whether chartType names a renderer.
func KnownType(chartType string) bool {
	switch chartType {
	case TypePriceHistogram, TypeRatingHistogram, TypePriceBox, TypeRatingBox,
		TypeRatingViolin, TypePriceRatingScatter, TypeProductPie,
		TypeProductDonut, TypeProductPareto, TypeCorrelationHeatmap,
		TypeWordcloud:
		return true
	}
	return false
}

var palette = []color.NRGBA{
	{R: 0x0B, G: 0x84, B: 0x53, A: 0xFF},
	{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF},
	{R: 0x25, G: 0x63, B: 0xEB, A: 0xFF},
	{R: 0xD9, G: 0x77, B: 0x06, A: 0xFF},
	{R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF},
	{R: 0xDC, G: 0x26, B: 0x26, A: 0xFF},
	{R: 0x05, G: 0x96, B: 0x69, A: 0xFF},
	{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF},
}

func paletteColor(i int) color.NRGBA {
	return palette[i%len(palette)]
}

// floatValues extracts the non-missing values of a typed numeric column.
func floatValues(ds *domain.Dataset, field func(domain.Record) *float64) []float64 {
	out := make([]float64, 0, ds.Len())
	for _, rec := range ds.Records {
		if v := field(rec); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func priceOf(r domain.Record) *float64  { return r.Price }
func ratingOf(r domain.Record) *float64 { return r.Rating }
