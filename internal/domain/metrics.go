package domain

// MetricsSnapshot holds the scalar aggregates of one dataset view. Nil
// pointers mean "unavailable": the column was absent or entirely missing.
// A snapshot is derived and ephemeral; it is never stored apart from the
// view it was computed from.
type MetricsSnapshot struct {
	Count           int      `json:"count"`
	AvgRating       *float64 `json:"avg_rating"`
	AvgPrice        *float64 `json:"avg_price"`
	TopRatedProduct *string  `json:"top_rated_product"`
}
