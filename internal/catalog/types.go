package catalog

import (
	"strconv"
	"strings"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/variation"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/slug"
)

// Wire structs mirror the WooCommerce REST v3 JSON shape. Only the fields the
// storefront reads are declared.

type wcImage struct {
	Src string `json:"src"`
}

type wcTerm struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type wcAttribute struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

type wcProduct struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Price       string        `json:"price"`
	Images      []wcImage     `json:"images"`
	Attributes  []wcAttribute `json:"attributes"`
	Categories  []wcTerm      `json:"categories"`
	Brands      []wcTerm      `json:"brands"`
}

type wcVariationAttribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

type wcVariation struct {
	ID          int                    `json:"id"`
	SKU         string                 `json:"sku"`
	Price       string                 `json:"price"`
	StockStatus string                 `json:"stock_status"`
	Image       *wcImage               `json:"image"`
	Attributes  []wcVariationAttribute `json:"attributes"`
}

// parsePrice converts a WooCommerce decimal string into cents. Malformed or
// empty strings map to zero; prices never carry more than two decimals.
func parsePrice(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// tolerate Brazilian decimal comma
	s = strings.ReplaceAll(s, ",", ".")

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0
	}

	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return whole * 100
	}

	if whole < 0 || strings.HasPrefix(intPart, "-") {
		return whole*100 - cents
	}
	return whole*100 + cents
}

// toDomain maps a WooCommerce product (and its separately fetched
// variations) into the storefront model.
func toDomain(wp *wcProduct, wvs []wcVariation) domain.Product {
	p := domain.Product{
		ID:          strconv.Itoa(wp.ID),
		Name:        wp.Name,
		Slug:        wp.Slug,
		Description: wp.Description,
		BasePrice:   parsePrice(wp.Price),
	}

	if p.Slug == "" {
		p.Slug = slug.Generate(wp.Name)
	}

	if len(wp.Images) > 0 {
		p.BaseImage = wp.Images[0].Src
		for _, img := range wp.Images {
			p.Gallery = append(p.Gallery, img.Src)
		}
	}

	for _, attr := range wp.Attributes {
		p.Attributes = append(p.Attributes, domain.Attribute{
			Name:        attr.Name,
			Options:     attr.Options,
			IsVariation: attr.Variation,
		})
	}

	for _, cat := range wp.Categories {
		p.Categories = append(p.Categories, cat.Name)
	}

	if len(wp.Brands) > 0 {
		p.Brand = wp.Brands[0].Name
	}

	for _, wv := range wvs {
		p.Variations = append(p.Variations, variationToDomain(wv))
	}

	return p
}

func variationToDomain(wv wcVariation) domain.Variation {
	v := domain.Variation{
		ID:         strconv.Itoa(wv.ID),
		SKU:        wv.SKU,
		Attributes: make(map[string]string, len(wv.Attributes)),
	}

	for _, attr := range wv.Attributes {
		key := variation.NormalizeKey(attr.Name)
		if key == "" {
			continue
		}
		v.Attributes[key] = variation.NormalizeValue(attr.Option)
	}

	if wv.Price != "" {
		price := parsePrice(wv.Price)
		v.Price = &price
	}

	if wv.Image != nil {
		v.Image = wv.Image.Src
	}

	if wv.StockStatus != "" {
		inStock := wv.StockStatus == "instock"
		v.InStock = &inStock
	}

	return v
}
