package charts

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r, err := NewRenderer(log, config.Default())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return r
}

func fptr(v float64) *float64 { return &v }

func reviewDataset(n int) *domain.Dataset {
	ds := &domain.Dataset{
		Columns: []string{domain.ColProduct, domain.ColPrice, domain.ColRating, domain.ColReviewText},
	}
	for i := 0; i < n; i++ {
		ds.Records = append(ds.Records, domain.Record{
			Product:    fmt.Sprintf("product-%d", i%3),
			Price:      fptr(float64(5 + i%40)),
			Rating:     fptr(float64(1 + i%5)),
			ReviewText: "solid value for the money",
		})
	}
	return ds
}

func TestRender_AllTypesProducePNG(t *testing.T) {
	r := testRenderer(t)
	ds := reviewDataset(60)

	for _, chartType := range []string{
		TypePriceHistogram, TypeRatingHistogram, TypePriceBox, TypeRatingBox,
		TypeRatingViolin, TypePriceRatingScatter, TypeProductPie,
		TypeProductDonut, TypeProductPareto, TypeCorrelationHeatmap,
		TypeWordcloud,
	} {
		art, err := r.Render(ds, chartType)
		if err != nil {
			t.Fatalf("%s: %v", chartType, err)
		}
		if art.Type != chartType {
			t.Fatalf("%s: artifact typed %q", chartType, art.Type)
		}
		if !bytes.HasPrefix(art.PNG, pngMagic) {
			t.Fatalf("%s: output is not a PNG", chartType)
		}
	}
}

func TestRender_MissingColumnIsNotApplicable(t *testing.T) {
	r := testRenderer(t)
	ds := &domain.Dataset{
		Columns: []string{domain.ColProduct},
		Records: []domain.Record{{Product: "A"}},
	}
	for _, chartType := range []string{
		TypePriceHistogram, TypeRatingHistogram, TypePriceBox, TypeWordcloud,
	} {
		_, err := r.Render(ds, chartType)
		if !errors.Is(err, ErrNotApplicable) {
			t.Fatalf("%s: expected ErrNotApplicable, got %v", chartType, err)
		}
	}
}

func TestRender_EmptyViewIsNotApplicable(t *testing.T) {
	r := testRenderer(t)
	ds := &domain.Dataset{
		Columns: []string{domain.ColProduct, domain.ColPrice, domain.ColRating, domain.ColReviewText},
	}
	_, err := r.Render(ds, TypeRatingHistogram)
	if !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable on an empty view, got %v", err)
	}
}

func TestRender_UnknownType(t *testing.T) {
	r := testRenderer(t)
	if _, err := r.Render(reviewDataset(5), "sparkline"); err == nil {
		t.Fatalf("expected error for unknown chart type")
	}
	if KnownType("sparkline") {
		t.Fatalf("sparkline must not be a known type")
	}
	if !KnownType(TypeWordcloud) {
		t.Fatalf("wordcloud must be a known type")
	}
}

func TestRenderer_DefaultFontScalesByFrequency(t *testing.T) {
	r := testRenderer(t)
	if r.font == nil {
		t.Fatalf("renderer must carry a font without CHART_FONT set")
	}
	frequent := r.face(wordSize(10, 10))
	rare := r.face(wordSize(1, 10))
	fh, rh := frequent.Metrics().Height, rare.Metrics().Height
	if fh <= rh {
		t.Fatalf("frequent words must render larger: %v vs %v", fh, rh)
	}
}

func TestTruncateLabel_MultibyteSafe(t *testing.T) {
	if got := truncateLabel("Café Crème Machine", 6); got != "Café …" {
		t.Fatalf("truncated %q", got)
	}
	if got := truncateLabel("Café Crème", 10); got != "Café Crème" {
		t.Fatalf("10-rune label must pass through, got %q", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := testRenderer(t)
	ds := reviewDataset(250)

	a, err := r.Render(ds, TypeCorrelationHeatmap)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := r.Render(ds, TypeCorrelationHeatmap)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a.PNG, b.PNG) {
		t.Fatalf("seeded sampling must make renders reproducible")
	}
}
