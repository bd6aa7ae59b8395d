// Package report consolidates metrics, rendered charts and the optional AI
// summary into durable HTML and PDF artifacts. Both serializers share one
// content-assembly step so section order cannot drift between formats.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/domain"
)

// ExportError reports a failure during HTML or PDF assembly. When one is
// returned, no partial output file remains and all temp files are gone.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// ChartSection is one embedded chart with its section heading.
type ChartSection struct {
	Title    string
	Artifact *charts.Artifact
}

// Content is the assembled report before serialization. Sections whose
// artifact is absent simply do not appear; there are no placeholder boxes.
// All parts must come from the same filtered, product-selected view.
type Content struct {
	Product     string
	Metrics     domain.MetricsSnapshot
	Charts      []ChartSection
	Summary     string // empty means the section is omitted
	Excerpts    []string
	WrapWidth   int
	GeneratedAt time.Time
}

// chartOrder fixes the section sequence: rating distribution, price
// distribution, wordcloud. Unknown chart types sort after the known ones in
// input order.
var chartOrder = map[string]int{
	charts.TypeRatingHistogram: 0,
	charts.TypePriceBox:        1,
	charts.TypeWordcloud:       2,
}

var chartTitles = map[string]string{
	charts.TypeRatingHistogram: "Rating distribution",
	charts.TypePriceBox:        "Price distribution",
	charts.TypeWordcloud:       "Word cloud (reviews)",
}

// Build assembles the content in the deterministic section order. Nil chart
// artifacts (skipped renders) are dropped here, excerpts are capped, and
// the timestamp is pinned to UTC.
func Build(product string, snap domain.MetricsSnapshot, arts []*charts.Artifact, summary string, excerpts []string, excerptCap, wrapWidth int) Content {
	sections := make([]ChartSection, 0, len(arts))
	for _, a := range arts {
		if a == nil || len(a.PNG) == 0 {
			continue
		}
		title := chartTitles[a.Type]
		if title == "" {
			title = a.Type
		}
		sections = append(sections, ChartSection{Title: title, Artifact: a})
	}
	// stable insertion sort by fixed order
	for i := 1; i < len(sections); i++ {
		for j := i; j > 0 && orderOf(sections[j].Artifact.Type) < orderOf(sections[j-1].Artifact.Type); j-- {
			sections[j], sections[j-1] = sections[j-1], sections[j]
		}
	}

	if excerptCap > 0 && len(excerpts) > excerptCap {
		excerpts = excerpts[:excerptCap]
	}
	if wrapWidth <= 0 {
		wrapWidth = 120
	}

	return Content{
		Product:     product,
		Metrics:     snap,
		Charts:      sections,
		Summary:     strings.TrimSpace(summary),
		Excerpts:    excerpts,
		WrapWidth:   wrapWidth,
		GeneratedAt: time.Now().UTC(),
	}
}

func orderOf(chartType string) int {
	if o, ok := chartOrder[chartType]; ok {
		return o
	}
	return len(chartOrder)
}

// kpiLines renders the metrics block as display strings, with N/A for
// unavailable aggregates.
func (c Content) kpiLines() []string {
	avgRating := "N/A"
	if c.Metrics.AvgRating != nil {
		avgRating = fmt.Sprintf("%.2f", *c.Metrics.AvgRating)
	}
	avgPrice := "N/A"
	if c.Metrics.AvgPrice != nil {
		avgPrice = fmt.Sprintf("$%.2f", *c.Metrics.AvgPrice)
	}
	return []string{
		fmt.Sprintf("Review count: %d", c.Metrics.Count),
		fmt.Sprintf("Average rating: %s", avgRating),
		fmt.Sprintf("Average price: %s", avgPrice),
	}
}

// wrapText word-wraps s to the given width. Words longer than the width
// stand alone on their own line rather than being split.
func wrapText(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if len(cur)+1+len(w) > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		lines = append(lines, cur)
	}
	return lines
}
