package domain

// CartLine is one row in the cart, uniquely keyed by (ProductID, VariationID).
// Name, UnitPrice, Image and Brand are denormalized at add time so the cart
// stays renderable even if the catalog changes later.
type CartLine struct {
	ProductID   string            `json:"product_id"`
	VariationID string            `json:"variation_id,omitempty"`
	Quantity    int               `json:"quantity"`
	Name        string            `json:"name"`
	UnitPrice   int64             `json:"unit_price"`
	Image       string            `json:"image,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// CartSnapshot is the derived, always-fresh view of the cart. It is
// recomputed from the current lines on every read and never stored.
type CartSnapshot struct {
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  int64      `json:"subtotal"`
}
