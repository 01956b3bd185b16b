package model

// Store is the subset of a catalog store needed for report enrichment.
type Store struct {
	ID   string
	Name LocalizedText
	Icon *string
}

// Coupon is the subset of a catalog coupon needed for report enrichment.
// Store is nil when the coupon's parent store no longer exists.
type Coupon struct {
	ID    string
	Code  string
	Store *Store
}
