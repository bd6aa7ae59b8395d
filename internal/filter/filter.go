// Package filter applies a conjunction of optional predicates to a dataset
// view. It is purely functional: same dataset plus same filter state always
// yields the same view, and the source dataset is never mutated.
package filter

import (
	"strings"

	"github.com/thorfin/insights-backend/internal/domain"
)

// Apply returns the view of ds matching every active predicate in f. An
// inactive predicate, or a predicate whose column is absent from the
// dataset, filters nothing. A record missing a value for an active
// predicate on a present column is excluded.
func Apply(ds *domain.Dataset, f domain.FilterState) *domain.Dataset {
	if f.Empty() {
		return ds.WithRecords(ds.Records)
	}

	dateActive := f.PurchaseDate != nil && ds.HasColumn(domain.ColPurchaseDate)
	priceActive := f.Price != nil && ds.HasColumn(domain.ColPrice)
	ratingActive := f.Rating != nil && ds.HasColumn(domain.ColRating)
	productActive := f.ProductSubstring != "" && ds.HasColumn(domain.ColProduct)

	needle := strings.ToLower(f.ProductSubstring)

	kept := make([]domain.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if dateActive && !dateInRange(r, *f.PurchaseDate) {
			continue
		}
		if priceActive && !floatInRange(r.Price, *f.Price) {
			continue
		}
		if ratingActive && !floatInRange(r.Rating, *f.Rating) {
			continue
		}
		if productActive && !strings.Contains(strings.ToLower(r.Product), needle) {
			continue
		}
		kept = append(kept, r)
	}
	return ds.WithRecords(kept)
}

func dateInRange(r domain.Record, dr domain.DateRange) bool {
	if r.PurchaseDate == nil {
		return false
	}
	d := *r.PurchaseDate
	return !d.Before(dr.Start) && !d.After(dr.End)
}

func floatInRange(v *float64, fr domain.FloatRange) bool {
	if v == nil {
		return false
	}
	return *v >= fr.Min && *v <= fr.Max
}
