package variation

import (
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
)

// Option is one selectable value of a variation-eligible attribute.
// Available means at least one variation compatible with the rest of the
// current selection uses the value; InStock means at least one of those
// compatible variations is purchasable right now.
type Option struct {
	Value     string `json:"value"`
	Display   string `json:"display"`
	Available bool   `json:"available"`
	InStock   bool   `json:"in_stock"`
}

// ComputeAvailableOptions runs the constraint-satisfaction filter over the
// product's variations for the given (possibly partial) selection.
//
// Candidate values per attribute are the union of the declared options and
// every value observed in a variation, because the backend does not guarantee
// the two sources agree. Values with no backing variation are reported
// {Available: false, InStock: false}, never hidden. The computation is a full
// recompute per call, is total, and never panics.
func ComputeAvailableOptions(p *domain.Product, sel Selection) map[string][]Option {
	result := make(map[string][]Option)
	if p == nil {
		return result
	}

	display := DisplayValues(p)

	for _, key := range variationKeys(p) {
		candidates := candidateValues(p, key)

		options := make([]Option, 0, len(candidates))
		for _, value := range candidates {
			available, inStock := valueAvailability(p, sel, key, value)
			options = append(options, Option{
				Value:     value,
				Display:   displayFor(display, key, value),
				Available: available,
				InStock:   inStock,
			})
		}
		result[key] = options
	}

	return result
}

// ResolveVariation returns the first variation (declaration order) whose
// every non-empty selected attribute matches; a variation that omits a
// selected attribute matches it automatically. An empty selection resolves
// only when exactly one variation exists. No match returns nil, never an
// error: the caller treats nil as "selection incomplete or incompatible".
func ResolveVariation(p *domain.Product, sel Selection) *domain.Variation {
	if p == nil || len(p.Variations) == 0 {
		return nil
	}

	if sel.Empty() {
		if len(p.Variations) == 1 {
			return &p.Variations[0]
		}
		return nil
	}

	for i := range p.Variations {
		if matchesSelection(&p.Variations[i], sel) {
			return &p.Variations[i]
		}
	}

	return nil
}

// variationKeys returns the normalized names of the variation-eligible
// attributes, in declaration order.
func variationKeys(p *domain.Product) []string {
	keys := make([]string, 0, len(p.Attributes))
	seen := make(map[string]bool)
	for _, attr := range p.Attributes {
		if !attr.IsVariation {
			continue
		}
		key := NormalizeKey(attr.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// candidateValues returns the union of declared options and values observed
// in variations for the given normalized key: declared order first, then
// observed-only values in variation declaration order.
func candidateValues(p *domain.Product, key string) []string {
	var values []string
	seen := make(map[string]bool)

	for _, attr := range p.Attributes {
		if NormalizeKey(attr.Name) != key {
			continue
		}
		for _, opt := range attr.Options {
			norm := NormalizeValue(opt)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			values = append(values, norm)
		}
	}

	for _, v := range p.Variations {
		for rawKey, rawValue := range v.Attributes {
			if NormalizeKey(rawKey) != key {
				continue
			}
			norm := NormalizeValue(rawValue)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			values = append(values, norm)
		}
	}

	return values
}

// valueAvailability checks whether setting key=value is backed by at least
// one variation compatible with every other selected attribute.
func valueAvailability(p *domain.Product, sel Selection, key, value string) (available, inStock bool) {
	for i := range p.Variations {
		v := &p.Variations[i]
		if variationValue(v, key) != value {
			continue
		}
		if !compatibleExcept(v, sel, key) {
			continue
		}
		available = true
		if v.IsInStock() {
			inStock = true
			return
		}
	}
	return
}

// variationValue returns the variation's normalized value for the given
// normalized key, or "" when the variation does not define the attribute.
func variationValue(v *domain.Variation, key string) string {
	for rawKey, rawValue := range v.Attributes {
		if NormalizeKey(rawKey) == key {
			return NormalizeValue(rawValue)
		}
	}
	return ""
}

// compatibleExcept reports whether the variation is compatible with every
// selected attribute other than skip. An attribute the variation does not
// define never restricts.
func compatibleExcept(v *domain.Variation, sel Selection, skip string) bool {
	for selKey, selValue := range sel {
		if selKey == skip || NormalizeValue(selValue) == "" {
			continue
		}
		got := variationValue(v, selKey)
		if got == "" {
			continue
		}
		if got != NormalizeValue(selValue) {
			return false
		}
	}
	return true
}

// matchesSelection reports whether every non-empty selected attribute matches
// the variation; absence of the attribute on the variation is an automatic
// match.
func matchesSelection(v *domain.Variation, sel Selection) bool {
	return compatibleExcept(v, sel, "")
}

func displayFor(display map[string]map[string]string, key, value string) string {
	if m := display[key]; m != nil {
		if d, ok := m[value]; ok {
			return d
		}
	}
	return value
}
