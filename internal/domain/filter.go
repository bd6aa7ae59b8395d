package domain

import "time"

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterState is the set of active predicates applied to a dataset. Nil
// ranges and an empty substring are inactive; active predicates compose by
// AND. Applying a FilterState never mutates the source dataset.
type FilterState struct {
	PurchaseDate     *DateRange  `json:"purchase_date,omitempty"`
	Price            *FloatRange `json:"price,omitempty"`
	Rating           *FloatRange `json:"rating,omitempty"`
	ProductSubstring string      `json:"product_substring,omitempty"`
}

func (f FilterState) Empty() bool {
	return f.PurchaseDate == nil && f.Price == nil && f.Rating == nil && f.ProductSubstring == ""
}
