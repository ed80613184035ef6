package domain

// Product is a catalog entity with a base price/image and zero or more
// purchasable variations. Prices are in cents (BRL centavos).
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description,omitempty"`
	Brand       string      `json:"brand,omitempty"`
	Attributes  []Attribute `json:"attributes"`
	Variations  []Variation `json:"variations"`
	BasePrice   int64       `json:"base_price"`
	BaseImage   string      `json:"base_image,omitempty"`
	Gallery     []string    `json:"gallery,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
}

// Attribute is a named, enumerable dimension of choice (e.g. cor). Only
// attributes with IsVariation true participate in variation matching.
type Attribute struct {
	Name        string   `json:"name"`
	Options     []string `json:"options"`
	IsVariation bool     `json:"is_variation"`
}

// Variation is a concrete purchasable combination of attribute values with
// optional price/image/stock/SKU overrides of the product defaults.
// Attributes maps normalized key to normalized value; a variation need not
// specify every product attribute.
type Variation struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
	InStock    *bool             `json:"in_stock,omitempty"`
	SKU        string            `json:"sku,omitempty"`
	Price      *int64            `json:"price,omitempty"`
	Image      string            `json:"image,omitempty"`
}

// IsInStock reports whether the variation is purchasable. A missing stock
// flag defaults to in stock.
func (v *Variation) IsInStock() bool {
	return v.InStock == nil || *v.InStock
}

// EffectivePrice returns the variation price override, or the product base
// price when the variation carries none.
func (v *Variation) EffectivePrice(p *Product) int64 {
	if v.Price != nil {
		return *v.Price
	}
	return p.BasePrice
}
