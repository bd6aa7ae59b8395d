package charts

import (
	"sort"

	"github.com/thorfin/insights-backend/internal/domain"
)

type boxStats struct {
	min, q1, median, q3, max float64
	outliers                 []float64
}

// PriceBox draws a single horizontal box plot of the price column, the
// drill-down price view.
func (r *Renderer) PriceBox(ds *domain.Dataset) (*Artifact, error) {
	if !ds.HasColumn(domain.ColPrice) {
		return nil, ErrNotApplicable
	}
	values := floatValues(ds, priceOf)
	if len(values) == 0 {
		return nil, ErrNotApplicable
	}

	st := computeBoxStats(values)
	lo, hi := minMax(values)
	if hi == lo {
		hi = lo + 1
	}

	f := r.newFrame(chartW, 300, "Price distribution (box plot)")
	f.setScale(lo-(hi-lo)*0.05, hi+(hi-lo)*0.05, 0, 1)
	f.drawAxes()

	cy := f.py(0.5)
	half := 40.0
	dc := f.dc
	box := paletteColor(0)

	// whiskers
	dc.SetColor(colAxis)
	dc.SetLineWidth(1.5)
	dc.DrawLine(f.px(st.min), cy, f.px(st.q1), cy)
	dc.DrawLine(f.px(st.q3), cy, f.px(st.max), cy)
	dc.DrawLine(f.px(st.min), cy-12, f.px(st.min), cy+12)
	dc.DrawLine(f.px(st.max), cy-12, f.px(st.max), cy+12)
	dc.Stroke()

	// box + median
	dc.SetColor(box)
	dc.DrawRectangle(f.px(st.q1), cy-half, f.px(st.q3)-f.px(st.q1), half*2)
	dc.Fill()
	dc.SetColor(colBackground)
	dc.SetLineWidth(2)
	dc.DrawLine(f.px(st.median), cy-half, f.px(st.median), cy+half)
	dc.Stroke()

	for _, o := range st.outliers {
		dc.SetColor(paletteColor(5))
		dc.DrawCircle(f.px(o), cy, 3)
		dc.Fill()
	}

	for i := 0; i <= 5; i++ {
		v := lo + (hi-lo)*float64(i)/5
		f.drawXLabel(f.px(v), formatTick(v), false)
	}
	return f.encode(TypePriceBox)
}

// RatingBoxByProduct draws one vertical box per product.
func (r *Renderer) RatingBoxByProduct(ds *domain.Dataset) (*Artifact, error) {
	groups, order := ratingsByProduct(ds)
	if len(order) == 0 {
		return nil, ErrNotApplicable
	}

	f := r.newFrame(chartW, chartH, "Rating by product (box plot)")
	ymin, ymax := groupRange(groups)
	f.setScale(0, float64(len(order)), ymin-0.5, ymax+0.5)
	f.drawYTicks(5, formatTick)
	f.drawAxes()

	slot := (float64(chartW) - marginLeft - marginRight) / float64(len(order))
	half := slot * 0.28
	dc := f.dc

	for i, product := range order {
		st := computeBoxStats(groups[product])
		cx := f.px(float64(i) + 0.5)

		dc.SetColor(colAxis)
		dc.SetLineWidth(1.2)
		dc.DrawLine(cx, f.py(st.min), cx, f.py(st.q1))
		dc.DrawLine(cx, f.py(st.q3), cx, f.py(st.max))
		dc.Stroke()

		dc.SetColor(paletteColor(i))
		dc.DrawRectangle(cx-half, f.py(st.q3), half*2, f.py(st.q1)-f.py(st.q3))
		dc.Fill()
		dc.SetColor(colBackground)
		dc.SetLineWidth(2)
		dc.DrawLine(cx-half, f.py(st.median), cx+half, f.py(st.median))
		dc.Stroke()

		for _, o := range st.outliers {
			dc.SetColor(paletteColor(5))
			dc.DrawCircle(cx, f.py(o), 2.5)
			dc.Fill()
		}

		f.drawXLabel(cx, truncateLabel(product, 14), true)
	}
	return f.encode(TypeRatingBox)
}

// ratingsByProduct groups non-missing ratings by product in encounter
// order. Empty result means the chart has nothing to show.
func ratingsByProduct(ds *domain.Dataset) (map[string][]float64, []string) {
	if !ds.HasColumn(domain.ColProduct) || !ds.HasColumn(domain.ColRating) {
		return nil, nil
	}
	groups := make(map[string][]float64)
	order := make([]string, 0, 16)
	for _, rec := range ds.Records {
		if rec.Product == "" || rec.Rating == nil {
			continue
		}
		if _, ok := groups[rec.Product]; !ok {
			order = append(order, rec.Product)
		}
		groups[rec.Product] = append(groups[rec.Product], *rec.Rating)
	}
	return groups, order
}

func groupRange(groups map[string][]float64) (float64, float64) {
	first := true
	var lo, hi float64
	for _, vs := range groups {
		for _, v := range vs {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// computeBoxStats derives quartiles by linear interpolation and whiskers at
// 1.5 IQR clamped to observed values; points beyond are outliers.
func computeBoxStats(values []float64) boxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	st := boxStats{
		q1:     quantile(sorted, 0.25),
		median: quantile(sorted, 0.5),
		q3:     quantile(sorted, 0.75),
	}
	iqr := st.q3 - st.q1
	loFence := st.q1 - 1.5*iqr
	hiFence := st.q3 + 1.5*iqr

	st.min = sorted[len(sorted)-1]
	st.max = sorted[0]
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			st.outliers = append(st.outliers, v)
			continue
		}
		if v < st.min {
			st.min = v
		}
		if v > st.max {
			st.max = v
		}
	}
	if st.min > st.max {
		// every point was an outlier; fall back to the raw extent
		st.min, st.max = sorted[0], sorted[len(sorted)-1]
	}
	return st
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	frac := pos - float64(i)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}
