package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cor", "cor"},
		{"  Tamanho  ", "tamanho"},
		{"pa_cor", "cor"},
		{"PA_Cor", "cor"},
		{"cor", "cor"},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeKey(tc.in), "NormalizeKey(%q)", tc.in)
	}
}

func TestNormalizeKey_Idempotent(t *testing.T) {
	for _, in := range []string{"pa_cor", "Cor Costura", "  TAMANHO ", ""} {
		once := NormalizeKey(in)
		assert.Equal(t, once, NormalizeKey(once))
	}
}

func TestNormalizeValue_Idempotent(t *testing.T) {
	for _, in := range []string{"Preto", " BRANCO ", "p", ""} {
		once := NormalizeValue(in)
		assert.Equal(t, once, NormalizeValue(once))
	}
}

func TestDisplayValues_DeclaredOptionsWin(t *testing.T) {
	p := &domain.Product{
		Attributes: []domain.Attribute{
			{Name: "pa_cor", Options: []string{"Preto", "Branco"}, IsVariation: true},
		},
		Variations: []domain.Variation{
			{ID: "v1", Attributes: map[string]string{"cor": "preto"}},
			{ID: "v2", Attributes: map[string]string{"cor": "vermelho"}},
		},
	}

	display := DisplayValues(p)
	assert.Equal(t, "Preto", display["cor"]["preto"])
	assert.Equal(t, "Branco", display["cor"]["branco"])
	// observed only in a variation: raw value is the best display we have
	assert.Equal(t, "vermelho", display["cor"]["vermelho"])
}
