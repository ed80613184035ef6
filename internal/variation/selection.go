package variation

import (
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
)

// primaryAttribute is the attribute the default selection seeds when the
// product declares it (Portuguese storefront: cor = color).
const primaryAttribute = "cor"

// Selection is the user's current, possibly partial, choice of one value per
// normalized attribute key. Values keep their original casing; comparison
// always goes through NormalizeValue. An empty value means "not yet chosen".
type Selection map[string]string

// Empty reports whether no attribute has a non-empty chosen value.
func (s Selection) Empty() bool {
	for _, v := range s {
		if NormalizeValue(v) != "" {
			return false
		}
	}
	return true
}

// Set chooses a value for an attribute. Choosing a value currently reported
// unavailable is a no-op, not an error: disabled options stay visible but
// inert. Changing a value never clears other attribute selections.
func (s Selection) Set(p *domain.Product, key, value string) {
	normKey := NormalizeKey(key)

	options := ComputeAvailableOptions(p, s)
	if opts, ok := options[normKey]; ok {
		normValue := NormalizeValue(value)
		for _, opt := range opts {
			if opt.Value == normValue && !opt.Available {
				return
			}
		}
	}

	s[normKey] = value
}

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// PickDefaultSelection is the named default-selection policy: seed only the
// primary attribute (cor, else the first variation-eligible attribute) from
// the first in-stock variation that defines it. When no in-stock variation
// exists the first declared variation wins regardless of stock. Every other
// attribute starts unselected, forcing an explicit choice.
func PickDefaultSelection(p *domain.Product) Selection {
	sel := make(Selection)
	if p == nil || len(p.Variations) == 0 {
		return sel
	}

	keys := variationKeys(p)
	if len(keys) == 0 {
		return sel
	}

	primary := keys[0]
	for _, key := range keys {
		if key == primaryAttribute {
			primary = key
			break
		}
	}

	display := DisplayValues(p)

	var fallback string
	for i := range p.Variations {
		value := variationValue(&p.Variations[i], primary)
		if value == "" {
			continue
		}
		if p.Variations[i].IsInStock() {
			sel[primary] = displayFor(display, primary, value)
			return sel
		}
		if fallback == "" {
			fallback = value
		}
	}

	if fallback != "" {
		sel[primary] = displayFor(display, primary, fallback)
	}
	return sel
}
