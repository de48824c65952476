package domain

// Package is a catalog entry scoped to a tenant (tenant "public" entries are
// visible to everyone).
type Package struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Nights      int    `json:"nights"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
}
