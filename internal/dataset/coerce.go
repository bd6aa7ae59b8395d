package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/thorfin/insights-backend/internal/domain"
)

// normalizeColumns lowercases, trims and underscores column names the same
// way for every input format, so downstream code matches on one spelling.
func normalizeColumns(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.ToLower(h))
		name = strings.ReplaceAll(name, " ", "_")
		out[i] = name
	}
	return out
}

func buildRecord(columns []string, row []string) domain.Record {
	rec := domain.Record{}
	for i, col := range columns {
		var cell string
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		switch col {
		case domain.ColClientID:
			rec.ClientID = cell
		case domain.ColProduct:
			rec.Product = cell
		case domain.ColDescription:
			rec.Description = cell
		case domain.ColPrice:
			rec.Price = parseFloat(cell)
		case domain.ColRating:
			rec.Rating = parseFloat(cell)
		case domain.ColReviewText:
			rec.ReviewText = cell
		case domain.ColReviewLanguage:
			rec.ReviewLanguage = cell
		case domain.ColPurchaseDate:
			rec.PurchaseDate = parseDate(cell)
		default:
			if cell != "" {
				if rec.Extra == nil {
					rec.Extra = make(map[string]string, 2)
				}
				rec.Extra[col] = cell
			}
		}
	}
	return rec
}

// parseFloat coerces a cell to a number. Anything unparseable is a missing
// value, never a load failure.
func parseFloat(cell string) *float64 {
	if cell == "" {
		return nil
	}
	cell = strings.TrimPrefix(cell, "$")
	cell = strings.ReplaceAll(cell, ",", "")
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

func parseDate(cell string) *time.Time {
	if cell == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return &t
		}
	}
	return nil
}

// computeBounds captures the observed min/max of the typed columns over the
// full, unfiltered dataset. Filter widgets derive their ranges from these
// once; they are not recomputed per filter.
func computeBounds(records []domain.Record) domain.Bounds {
	var b domain.Bounds
	for i := range records {
		r := &records[i]
		if r.Price != nil {
			if b.PriceMin == nil || *r.Price < *b.PriceMin {
				b.PriceMin = r.Price
			}
			if b.PriceMax == nil || *r.Price > *b.PriceMax {
				b.PriceMax = r.Price
			}
		}
		if r.Rating != nil {
			if b.RatingMin == nil || *r.Rating < *b.RatingMin {
				b.RatingMin = r.Rating
			}
			if b.RatingMax == nil || *r.Rating > *b.RatingMax {
				b.RatingMax = r.Rating
			}
		}
		if r.PurchaseDate != nil {
			if b.DateMin == nil || r.PurchaseDate.Before(*b.DateMin) {
				b.DateMin = r.PurchaseDate
			}
			if b.DateMax == nil || r.PurchaseDate.After(*b.DateMax) {
				b.DateMax = r.PurchaseDate
			}
		}
	}
	return b
}
