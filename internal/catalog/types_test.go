package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"29.90", 2990},
		{"29.9", 2990},
		{"29", 2900},
		{"129.95", 12995},
		{"29,90", 2990},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"19.999", 1999},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, parsePrice(tc.in), "parsePrice(%q)", tc.in)
	}
}

const recordedProduct = `{
	"id": 4512,
	"name": "Capa de Câmbio Couro",
	"slug": "capa-de-cambio-couro",
	"description": "<p>Capa universal em couro sintético.</p>",
	"price": "89.90",
	"images": [
		{"src": "https://cdn.example.com/capa-1.jpg"},
		{"src": "https://cdn.example.com/capa-2.jpg"}
	],
	"attributes": [
		{"id": 3, "name": "pa_cor", "variation": true, "options": ["Preto", "Vermelho"]},
		{"id": 7, "name": "Material", "variation": false, "options": ["Couro sintético"]}
	],
	"categories": [{"id": 11, "name": "Interior", "slug": "interior"}],
	"brands": [{"id": 2, "name": "Nihon", "slug": "nihon"}]
}`

const recordedVariations = `[
	{
		"id": 9001,
		"sku": "CAPA-PRETO",
		"price": "89.90",
		"stock_status": "instock",
		"image": {"src": "https://cdn.example.com/capa-preta.jpg"},
		"attributes": [{"name": "pa_cor", "option": "Preto"}]
	},
	{
		"id": 9002,
		"sku": "CAPA-VERM",
		"price": "99.90",
		"stock_status": "outofstock",
		"attributes": [{"name": "pa_cor", "option": "Vermelho"}]
	}
]`

func TestToDomain_RecordedProduct(t *testing.T) {
	var wp wcProduct
	require.NoError(t, json.Unmarshal([]byte(recordedProduct), &wp))
	var wvs []wcVariation
	require.NoError(t, json.Unmarshal([]byte(recordedVariations), &wvs))

	p := toDomain(&wp, wvs)

	assert.Equal(t, "4512", p.ID)
	assert.Equal(t, "capa-de-cambio-couro", p.Slug)
	assert.Equal(t, int64(8990), p.BasePrice)
	assert.Equal(t, "https://cdn.example.com/capa-1.jpg", p.BaseImage)
	assert.Len(t, p.Gallery, 2)
	assert.Equal(t, "Nihon", p.Brand)
	assert.Equal(t, []string{"Interior"}, p.Categories)

	require.Len(t, p.Attributes, 2)
	assert.True(t, p.Attributes[0].IsVariation)
	assert.False(t, p.Attributes[1].IsVariation)

	require.Len(t, p.Variations, 2)
	v1, v2 := p.Variations[0], p.Variations[1]

	assert.Equal(t, "9001", v1.ID)
	assert.Equal(t, "preto", v1.Attributes["cor"], "taxonomy prefix stripped, value normalized")
	require.NotNil(t, v1.Price)
	assert.Equal(t, int64(8990), *v1.Price)
	assert.True(t, v1.IsInStock())
	assert.Equal(t, "https://cdn.example.com/capa-preta.jpg", v1.Image)

	assert.Equal(t, "vermelho", v2.Attributes["cor"])
	assert.False(t, v2.IsInStock())
	assert.Empty(t, v2.Image)
}

func TestToDomain_MissingSlugGenerated(t *testing.T) {
	wp := wcProduct{ID: 1, Name: "Suspensão Dianteira"}
	p := toDomain(&wp, nil)
	assert.Equal(t, "suspensao-dianteira", p.Slug)
}

func TestVariationToDomain_MissingStockStatusDefaultsInStock(t *testing.T) {
	v := variationToDomain(wcVariation{ID: 1})
	assert.Nil(t, v.InStock)
	assert.True(t, v.IsInStock())
}
