package charts

import (
	"math"

	"github.com/thorfin/insights-backend/internal/domain"
)

// RatingViolinByProduct draws a mirrored kernel-density outline per product
// with the individual points overlaid, the violin companion to the box
// plot.
func (r *Renderer) RatingViolinByProduct(ds *domain.Dataset) (*Artifact, error) {
	groups, order := ratingsByProduct(ds)
	if len(order) == 0 {
		return nil, ErrNotApplicable
	}

	f := r.newFrame(chartW, chartH, "Rating by product (violin)")
	ymin, ymax := groupRange(groups)
	f.setScale(0, float64(len(order)), ymin-0.75, ymax+0.75)
	f.drawYTicks(5, formatTick)
	f.drawAxes()

	slot := (float64(chartW) - marginLeft - marginRight) / float64(len(order))
	halfMax := slot * 0.35
	dc := f.dc

	for i, product := range order {
		values := groups[product]
		cx := f.px(float64(i) + 0.5)

		density, dmin, dmax := kernelDensity(values, 40)
		peak := 0.0
		for _, d := range density {
			if d > peak {
				peak = d
			}
		}

		if peak > 0 {
			col := paletteColor(i)
			col.A = 0xB0
			dc.SetColor(col)
			dc.MoveTo(cx, f.py(dmin))
			for j, d := range density {
				y := dmin + (dmax-dmin)*float64(j)/float64(len(density)-1)
				dc.LineTo(cx+halfMax*d/peak, f.py(y))
			}
			for j := len(density) - 1; j >= 0; j-- {
				y := dmin + (dmax-dmin)*float64(j)/float64(len(density)-1)
				dc.LineTo(cx-halfMax*density[j]/peak, f.py(y))
			}
			dc.ClosePath()
			dc.Fill()
		}

		// overlay the raw points down the center line
		dc.SetColor(colAxis)
		for _, v := range values {
			dc.DrawCircle(cx, f.py(v), 2)
			dc.Fill()
		}

		f.drawXLabel(cx, truncateLabel(product, 14), true)
	}
	return f.encode(TypeRatingViolin)
}

// kernelDensity evaluates a gaussian KDE on a fixed grid spanning the data
// with a margin of one bandwidth on each side.
func kernelDensity(values []float64, points int) ([]float64, float64, float64) {
	lo, hi := minMax(values)
	bw := silvermanBandwidth(values)
	if bw <= 0 {
		bw = 0.5
	}
	lo -= bw
	hi += bw
	if hi == lo {
		hi = lo + 1
	}

	density := make([]float64, points)
	for j := range density {
		x := lo + (hi-lo)*float64(j)/float64(points-1)
		var sum float64
		for _, v := range values {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		density[j] = sum / (float64(len(values)) * bw * math.Sqrt(2*math.Pi))
	}
	return density, lo, hi
}

func silvermanBandwidth(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sum, sumSq float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	for _, v := range values {
		sumSq += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(sumSq / (n - 1))
	return 1.06 * sd * math.Pow(n, -0.2)
}
