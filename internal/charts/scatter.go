package charts

import (
	"github.com/thorfin/insights-backend/internal/domain"
)

// PriceRatingScatter plots price against rating, colored by product when a
// product column exists.
func (r *Renderer) PriceRatingScatter(ds *domain.Dataset) (*Artifact, error) {
	if !ds.HasColumn(domain.ColPrice) || !ds.HasColumn(domain.ColRating) {
		return nil, ErrNotApplicable
	}

	type point struct {
		x, y    float64
		product string
	}
	points := make([]point, 0, ds.Len())
	for _, rec := range ds.Records {
		if rec.Price == nil || rec.Rating == nil {
			continue
		}
		points = append(points, point{x: *rec.Price, y: *rec.Rating, product: rec.Product})
	}
	if len(points) == 0 {
		return nil, ErrNotApplicable
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.x
		ys[i] = p.y
	}
	xlo, xhi := minMax(xs)
	ylo, yhi := minMax(ys)

	f := r.newFrame(chartW, chartH, "Price vs rating")
	f.setScale(xlo-(xhi-xlo)*0.05-0.01, xhi+(xhi-xlo)*0.05+0.01, ylo-0.5, yhi+0.5)
	f.drawYTicks(5, formatTick)
	f.drawAxes()

	colorIdx := make(map[string]int)
	for _, p := range points {
		idx := 0
		if p.product != "" {
			i, ok := colorIdx[p.product]
			if !ok {
				i = len(colorIdx)
				colorIdx[p.product] = i
			}
			idx = i
		}
		f.dc.SetColor(paletteColor(idx))
		f.dc.DrawCircle(f.px(p.x), f.py(p.y), 4)
		f.dc.Fill()
	}

	for i := 0; i <= 5; i++ {
		v := xlo + (xhi-xlo)*float64(i)/5
		f.drawXLabel(f.px(v), formatTick(v), false)
	}
	return f.encode(TypePriceRatingScatter)
}
