package charts

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/thorfin/insights-backend/internal/domain"
)

// CorrelationHeatmap renders the Pearson correlation matrix of the numeric
// columns. It needs at least two numeric columns with data; rows are
// sampled with a fixed seed so reruns on the same data produce the same
// image.
func (r *Renderer) CorrelationHeatmap(ds *domain.Dataset) (*Artifact, error) {
	names, columns := numericColumns(ds)
	if len(names) < 2 {
		return nil, ErrNotApplicable
	}

	columns = sampleRows(columns, r.tuning.PairwiseSampleCap, int64(r.tuning.PairwiseSeed))

	n := len(names)
	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		for j := range corr[i] {
			corr[i][j] = pearson(columns[i], columns[j])
		}
	}

	const size = 520
	f := r.newFrame(size+120, size, "Correlation heatmap")
	dc := f.dc

	cell := (float64(size) - marginLeft - marginTop) / float64(n)
	x0, y0 := marginLeft, marginTop+10

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dc.SetColor(heatColor(corr[i][j]))
			dc.DrawRectangle(x0+float64(j)*cell, y0+float64(i)*cell, cell, cell)
			dc.Fill()

			label := "n/a"
			if !math.IsNaN(corr[i][j]) {
				label = fmt.Sprintf("%.2f", corr[i][j])
			}
			dc.SetColor(colText)
			dc.DrawStringAnchored(label, x0+float64(j)*cell+cell/2, y0+float64(i)*cell+cell/2, 0.5, 0.5)
		}
	}

	for i, name := range names {
		dc.SetColor(colText)
		dc.DrawStringAnchored(truncateLabel(name, 12), x0-6, y0+float64(i)*cell+cell/2, 1, 0.5)
		dc.DrawStringAnchored(truncateLabel(name, 12), x0+float64(i)*cell+cell/2, y0+float64(n)*cell+14, 0.5, 0.5)
	}
	return f.encode(TypeCorrelationHeatmap)
}

// numericColumns returns the typed numeric columns as parallel row slices
// with NaN marking missing cells, so pairwise computations can align rows.
func numericColumns(ds *domain.Dataset) ([]string, [][]float64) {
	var names []string
	var columns [][]float64

	appendCol := func(name string, field func(domain.Record) *float64) {
		if !ds.HasColumn(name) {
			return
		}
		col := make([]float64, ds.Len())
		any := false
		for i, rec := range ds.Records {
			if v := field(rec); v != nil {
				col[i] = *v
				any = true
			} else {
				col[i] = math.NaN()
			}
		}
		if any {
			names = append(names, name)
			columns = append(columns, col)
		}
	}

	appendCol(domain.ColPrice, priceOf)
	appendCol(domain.ColRating, ratingOf)
	return names, columns
}

// sampleRows keeps at most cap rows, chosen by a seeded shuffle of row
// indices so the selection is stable across reruns.
func sampleRows(columns [][]float64, capRows int, seed int64) [][]float64 {
	if len(columns) == 0 || len(columns[0]) <= capRows {
		return columns
	}
	idx := make([]int, len(columns[0]))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	idx = idx[:capRows]

	out := make([][]float64, len(columns))
	for c := range columns {
		col := make([]float64, len(idx))
		for i, ri := range idx {
			col[i] = columns[c][ri]
		}
		out[c] = col
	}
	return out
}

// pearson computes the correlation over rows where both columns have a
// value. NaN when fewer than two complete pairs or zero variance.
func pearson(a, b []float64) float64 {
	var n int
	var sumA, sumB float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		sumA += a[i]
		sumB += b[i]
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var cov, varA, varB float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varA*varB)
}

// heatColor maps [-1,1] onto a blue-white-red ramp; NaN renders gray.
func heatColor(v float64) color.NRGBA {
	if math.IsNaN(v) {
		return color.NRGBA{R: 0xD1, G: 0xD5, B: 0xDB, A: 0xFF}
	}
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	if v >= 0 {
		t := v
		return color.NRGBA{
			R: 0xFF,
			G: uint8(0xFF - t*120),
			B: uint8(0xFF - t*160),
			A: 0xFF,
		}
	}
	t := -v
	return color.NRGBA{
		R: uint8(0xFF - t*160),
		G: uint8(0xFF - t*120),
		B: 0xFF,
		A: 0xFF,
	}
}
