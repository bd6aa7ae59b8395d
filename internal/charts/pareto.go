package charts

import (
	"fmt"

	"github.com/thorfin/insights-backend/internal/domain"
)

// ParetoData ranks products by descending record count and computes the
// cumulative share over ALL products, not just the displayed head. The
// final cumulative value is 1.0 up to floating error.
func ParetoData(ds *domain.Dataset) (labels []string, counts []int, cumulative []float64) {
	labels, counts = productCounts(ds)
	if len(labels) == 0 {
		return nil, nil, nil
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	cumulative = make([]float64, len(counts))
	running := 0
	for i, c := range counts {
		running += c
		cumulative[i] = float64(running) / float64(total)
	}
	return labels, counts, cumulative
}

// ProductPareto draws count bars for the top-N products with the cumulative
// share line on a secondary percentage axis. N is a display cap from
// configuration; the cumulative series is still computed over everything.
func (r *Renderer) ProductPareto(ds *domain.Dataset) (*Artifact, error) {
	labels, counts, cumulative := ParetoData(ds)
	if len(labels) == 0 {
		return nil, ErrNotApplicable
	}

	topN := r.tuning.ParetoTopN
	if len(labels) > topN {
		labels = labels[:topN]
		counts = counts[:topN]
		cumulative = cumulative[:topN]
	}

	maxCount := counts[0]

	f := r.newFrame(chartW, chartH, "Pareto: top products by review count")
	f.setScale(0, float64(len(labels)), 0, float64(maxCount)*1.1)
	f.drawYTicks(5, func(v float64) string { return fmt.Sprintf("%.0f", v) })
	f.drawAxes()

	slot := (float64(chartW) - marginLeft - marginRight) / float64(len(labels))
	dc := f.dc

	for i, c := range counts {
		x := f.px(float64(i) + 0.15)
		w := slot * 0.7
		dc.SetColor(paletteColor(0))
		dc.DrawRectangle(x, f.py(float64(c)), w, f.py(0)-f.py(float64(c)))
		dc.Fill()
		f.drawXLabel(f.px(float64(i)+0.5), truncateLabel(labels[i], 14), true)
	}

	// cumulative line on the secondary axis: share 0..1 mapped to plot height
	pyShare := func(share float64) float64 {
		top := f.py(float64(maxCount) * 1.1)
		bottom := f.py(0)
		return bottom - share*(bottom-top)
	}

	line := paletteColor(3)
	dc.SetColor(line)
	dc.SetLineWidth(2)
	for i := 1; i < len(cumulative); i++ {
		dc.DrawLine(
			f.px(float64(i-1)+0.5), pyShare(cumulative[i-1]),
			f.px(float64(i)+0.5), pyShare(cumulative[i]),
		)
	}
	dc.Stroke()
	for i, share := range cumulative {
		dc.DrawCircle(f.px(float64(i)+0.5), pyShare(share), 3.5)
		dc.Fill()
	}

	// secondary axis labels on the right edge
	dc.SetColor(colText)
	for i := 0; i <= 4; i++ {
		share := float64(i) / 4
		dc.DrawStringAnchored(fmt.Sprintf("%.0f%%", share*100), float64(f.w)-marginRight+6, pyShare(share), 0, 0.5)
	}
	return f.encode(TypeProductPareto)
}
