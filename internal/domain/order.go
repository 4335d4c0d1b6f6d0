package domain

// Order mirrors the wire format of the order service. IdProduit is plain
// data: the order service enforces no referential constraint on it, so the
// value may name a product that no longer exists.
type Order struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantite"`
	Date        Date    `json:"date"`
	Amount      float64 `json:"montant"`
	ProductID   *int64  `json:"idProduit"`
}

// References reports whether the order names the given product.
func (o Order) References(productID int64) bool {
	return o.ProductID != nil && *o.ProductID == productID
}
