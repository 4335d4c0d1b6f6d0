package domain

// Product mirrors the wire format of the product service. Identifiers are
// assigned by the owning service; the console never generates them.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"nom"`
	Price float64 `json:"prix"`
}
