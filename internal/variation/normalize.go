package variation

import (
	"strings"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
)

// taxonomyPrefix is the WooCommerce global-attribute prefix that leaks into
// attribute names ("pa_cor" vs "cor"). Matching must not care about it.
const taxonomyPrefix = "pa_"

// NormalizeKey canonicalizes an attribute name for comparison: lower-case,
// trimmed, taxonomy prefix stripped. Idempotent.
func NormalizeKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, taxonomyPrefix)
	return key
}

// NormalizeValue canonicalizes an attribute value for comparison: lower-case,
// trimmed. Idempotent. Display casing is kept separately, see DisplayValues.
func NormalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// DisplayValues builds a lookup of normalized key -> normalized value ->
// original-cased value for rendering. Declared options win; values observed
// only in variations fall back to the raw variation value.
func DisplayValues(p *domain.Product) map[string]map[string]string {
	display := make(map[string]map[string]string)

	add := func(key, raw string) {
		norm := NormalizeValue(raw)
		if norm == "" {
			return
		}
		if display[key] == nil {
			display[key] = make(map[string]string)
		}
		if _, ok := display[key][norm]; !ok {
			display[key][norm] = strings.TrimSpace(raw)
		}
	}

	for _, attr := range p.Attributes {
		key := NormalizeKey(attr.Name)
		for _, opt := range attr.Options {
			add(key, opt)
		}
	}

	for _, v := range p.Variations {
		for rawKey, rawValue := range v.Attributes {
			add(NormalizeKey(rawKey), rawValue)
		}
	}

	return display
}
