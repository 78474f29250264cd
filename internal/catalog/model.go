package catalog

// Package is a purchasable membership tier. CommissionRate is in percent
// units (see the pairing engine).
type Package struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          int64   `json:"price"`
	CommissionRate float64 `json:"commission_rate"`
	Description    string  `json:"description,omitempty"`
	IsActive       bool    `json:"is_active"`
}
