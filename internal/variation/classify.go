package variation

// Treatment tells the storefront how to render an attribute's options.
type Treatment string

const (
	TreatmentSwatch Treatment = "swatch" // colored square
	TreatmentChip   Treatment = "chip"   // small labeled button
	TreatmentText   Treatment = "text"   // plain dropdown/text
)

// Classifier maps normalized attribute keys to their UI treatment. It is an
// explicit configuration table, not inferred from attribute name contents.
type Classifier struct {
	table map[string]Treatment
}

// DefaultClassifier covers the attribute keys the catalog actually uses.
func DefaultClassifier() *Classifier {
	return NewClassifier(map[string]Treatment{
		"cor":         TreatmentSwatch,
		"cor-costura": TreatmentSwatch,
		"tamanho":     TreatmentChip,
		"modelo":      TreatmentChip,
		"material":    TreatmentText,
	})
}

// NewClassifier builds a classifier from a key->treatment table. Keys are
// normalized on the way in.
func NewClassifier(table map[string]Treatment) *Classifier {
	normalized := make(map[string]Treatment, len(table))
	for key, treatment := range table {
		normalized[NormalizeKey(key)] = treatment
	}
	return &Classifier{table: normalized}
}

// Classify returns the treatment for an attribute key, defaulting to text
// for keys the table does not know.
func (c *Classifier) Classify(key string) Treatment {
	if t, ok := c.table[NormalizeKey(key)]; ok {
		return t
	}
	return TreatmentText
}
