// Package metrics computes the scalar aggregates shown as dashboard KPIs
// and embedded in reports.
package metrics

import "github.com/thorfin/insights-backend/internal/domain"

// Compute derives a fresh snapshot from the given view. It never fails: an
// empty view or a missing column reports the affected aggregates as
// unavailable (nil), not as zero.
func Compute(ds *domain.Dataset) domain.MetricsSnapshot {
	snap := domain.MetricsSnapshot{Count: ds.Len()}

	if ds.HasColumn(domain.ColRating) {
		snap.AvgRating = mean(ds.Records, func(r domain.Record) *float64 { return r.Rating })
	}
	if ds.HasColumn(domain.ColPrice) {
		snap.AvgPrice = mean(ds.Records, func(r domain.Record) *float64 { return r.Price })
	}
	if ds.HasColumn(domain.ColProduct) && ds.HasColumn(domain.ColRating) {
		snap.TopRatedProduct = topRatedProduct(ds.Records)
	}
	return snap
}

func mean(records []domain.Record, field func(domain.Record) *float64) *float64 {
	var sum float64
	var n int
	for _, r := range records {
		if v := field(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

// topRatedProduct returns the product with the highest per-product mean
// rating, over products with at least one rated review. Ties go to the
// product encountered first.
func topRatedProduct(records []domain.Record) *string {
	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[string]*acc)
	order := make([]string, 0, 16)

	for _, r := range records {
		if r.Product == "" || r.Rating == nil {
			continue
		}
		a, ok := sums[r.Product]
		if !ok {
			a = &acc{}
			sums[r.Product] = a
			order = append(order, r.Product)
		}
		a.sum += *r.Rating
		a.n++
	}
	if len(order) == 0 {
		return nil
	}

	best := order[0]
	bestMean := sums[best].sum / float64(sums[best].n)
	for _, p := range order[1:] {
		m := sums[p].sum / float64(sums[p].n)
		if m > bestMean {
			best = p
			bestMean = m
		}
	}
	return &best
}
