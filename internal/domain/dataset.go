package domain

import (
	"time"

	"github.com/google/uuid"
)

// Canonical column names recognized after normalization. Anything else is
// carried through untouched in Record.Extra.
const (
	ColClientID       = "client_id"
	ColProduct        = "product"
	ColDescription    = "product_description"
	ColPrice          = "price"
	ColRating         = "rating"
	ColReviewText     = "review_text"
	ColReviewLanguage = "review_language"
	ColPurchaseDate   = "purchase_date"
)

// Record is one row of an uploaded dataset after normalization. Typed fields
// are pointers so a malformed or absent cell stays "missing" instead of
// collapsing to a zero value.
type Record struct {
	ClientID       string
	Product        string
	Description    string
	Price          *float64
	Rating         *float64
	ReviewText     string
	ReviewLanguage string
	PurchaseDate   *time.Time

	// Extra holds unrecognized columns verbatim.
	Extra map[string]string
}

// Bounds are the observed extremes of the unfiltered dataset, captured once
// at load time. Range filters validate against these, not against whatever
// view is currently displayed.
type Bounds struct {
	PriceMin  *float64
	PriceMax  *float64
	RatingMin *float64
	RatingMax *float64
	DateMin   *time.Time
	DateMax   *time.Time
}

// Dataset is an immutable, ordered collection of records sharing one
// normalized schema. Filtering produces a new Dataset sharing the backing
// records; nothing mutates a loaded dataset.
type Dataset struct {
	ID       uuid.UUID
	Name     string
	Columns  []string
	Records  []Record
	Bounds   Bounds
	LoadedAt time.Time
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (d *Dataset) Len() int { return len(d.Records) }

// WithRecords returns a view over a subset of records, keeping schema,
// bounds and identity from the parent.
func (d *Dataset) WithRecords(records []Record) *Dataset {
	return &Dataset{
		ID:       d.ID,
		Name:     d.Name,
		Columns:  d.Columns,
		Records:  records,
		Bounds:   d.Bounds,
		LoadedAt: d.LoadedAt,
	}
}

// Products returns distinct non-empty product names in encounter order.
func (d *Dataset) Products() []string {
	seen := make(map[string]bool, 16)
	out := make([]string, 0, 16)
	for _, r := range d.Records {
		if r.Product == "" || seen[r.Product] {
			continue
		}
		seen[r.Product] = true
		out = append(out, r.Product)
	}
	return out
}

// SelectProduct returns the view holding only records of the given product.
func (d *Dataset) SelectProduct(product string) *Dataset {
	kept := make([]Record, 0, len(d.Records))
	for _, r := range d.Records {
		if r.Product == product {
			kept = append(kept, r)
		}
	}
	return d.WithRecords(kept)
}

// ReviewTexts returns the non-missing review texts in record order, capped
// at limit (non-positive limit means no cap).
func (d *Dataset) ReviewTexts(limit int) []string {
	out := make([]string, 0, len(d.Records))
	for _, r := range d.Records {
		if r.ReviewText == "" {
			continue
		}
		out = append(out, r.ReviewText)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
