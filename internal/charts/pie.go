package charts

import (
	"fmt"
	"math"

	"github.com/thorfin/insights-backend/internal/domain"
)

// ProductPie shows the share of records per product.
func (r *Renderer) ProductPie(ds *domain.Dataset) (*Artifact, error) {
	return r.pie(ds, TypeProductPie, "Product share", 0)
}

// ProductDonut is the pie with a 45% hole, matching the dashboard's donut
// variant.
func (r *Renderer) ProductDonut(ds *domain.Dataset) (*Artifact, error) {
	return r.pie(ds, TypeProductDonut, "Product share (donut)", 0.45)
}

func (r *Renderer) pie(ds *domain.Dataset, chartType, title string, holeRatio float64) (*Artifact, error) {
	labels, counts := productCounts(ds)
	if len(labels) == 0 {
		return nil, ErrNotApplicable
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	const size = 560
	f := r.newFrame(size+260, size, title)
	dc := f.dc

	cx := float64(size)/2 + 10
	cy := float64(size)/2 + 20
	radius := float64(size)/2 - marginTop - 10

	angle := -math.Pi / 2
	for i, c := range counts {
		share := float64(c) / float64(total)
		next := angle + share*2*math.Pi

		dc.SetColor(paletteColor(i))
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, next)
		dc.ClosePath()
		dc.Fill()

		angle = next
	}

	if holeRatio > 0 {
		dc.SetColor(colBackground)
		dc.DrawCircle(cx, cy, radius*holeRatio)
		dc.Fill()
	}

	// legend with percentages
	lx := float64(size) + 30
	ly := marginTop + 10
	for i, label := range labels {
		share := float64(counts[i]) / float64(total)
		dc.SetColor(paletteColor(i))
		dc.DrawRectangle(lx, ly-8, 14, 14)
		dc.Fill()
		dc.SetColor(colText)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%.1f%%)", truncateLabel(label, 18), share*100), lx+22, ly, 0, 0.5)
		ly += 22
		if ly > float64(size)-marginBottom {
			break
		}
	}
	return f.encode(chartType)
}

// productCounts tallies records per product, descending by count, ties in
// encounter order.
func productCounts(ds *domain.Dataset) ([]string, []int) {
	if !ds.HasColumn(domain.ColProduct) {
		return nil, nil
	}
	counts := make(map[string]int)
	order := make([]string, 0, 16)
	for _, rec := range ds.Records {
		if rec.Product == "" {
			continue
		}
		if _, ok := counts[rec.Product]; !ok {
			order = append(order, rec.Product)
		}
		counts[rec.Product]++
	}
	if len(order) == 0 {
		return nil, nil
	}

	// stable sort by descending count, preserving encounter order on ties
	sorted := append([]string(nil), order...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && counts[sorted[j]] > counts[sorted[j-1]]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	outCounts := make([]int, len(sorted))
	for i, p := range sorted {
		outCounts[i] = counts[p]
	}
	return sorted, outCounts
}
