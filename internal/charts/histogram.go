package charts

import (
	"fmt"
	"math"

	"github.com/thorfin/insights-backend/internal/domain"
)

// PriceHistogram bins the price column into 25 buckets, mirroring the
// dashboard's price distribution view.
func (r *Renderer) PriceHistogram(ds *domain.Dataset) (*Artifact, error) {
	if !ds.HasColumn(domain.ColPrice) {
		return nil, ErrNotApplicable
	}
	values := floatValues(ds, priceOf)
	if len(values) == 0 {
		return nil, ErrNotApplicable
	}
	return r.histogram(TypePriceHistogram, "Price distribution", values, 25)
}

// RatingHistogram uses 5 bins, matching the drill-down rating chart.
func (r *Renderer) RatingHistogram(ds *domain.Dataset) (*Artifact, error) {
	if !ds.HasColumn(domain.ColRating) {
		return nil, ErrNotApplicable
	}
	values := floatValues(ds, ratingOf)
	if len(values) == 0 {
		return nil, ErrNotApplicable
	}
	return r.histogram(TypeRatingHistogram, "Rating distribution", values, 5)
}

func (r *Renderer) histogram(chartType, title string, values []float64, bins int) (*Artifact, error) {
	lo, hi := minMax(values)
	if hi == lo {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bins)

	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	f := r.newFrame(chartW, chartH, title)
	f.setScale(lo, hi, 0, float64(maxCount)*1.1)
	f.drawYTicks(5, func(v float64) string { return fmt.Sprintf("%.0f", v) })
	f.drawAxes()

	bar := paletteColor(0)
	for i, c := range counts {
		if c == 0 {
			continue
		}
		x0 := f.px(lo + float64(i)*width)
		x1 := f.px(lo + float64(i+1)*width)
		y0 := f.py(float64(c))
		y1 := f.py(0)
		f.dc.SetColor(bar)
		f.dc.DrawRectangle(x0+1, y0, math.Max(x1-x0-2, 1), y1-y0)
		f.dc.Fill()
	}

	// a few x labels across the range
	for i := 0; i <= 5; i++ {
		v := lo + (hi-lo)*float64(i)/5
		f.drawXLabel(f.px(v), formatTick(v), false)
	}
	return f.encode(chartType)
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
