package variation

// MergeGallery places the resolved variation's image at the front of the
// product gallery, removing any duplicate occurrence of it from the base
// list. The remaining base images keep their order. An empty variation image
// returns the base gallery unchanged.
func MergeGallery(base []string, variationImage string) []string {
	if variationImage == "" {
		return base
	}

	merged := make([]string, 0, len(base)+1)
	merged = append(merged, variationImage)
	for _, img := range base {
		if img == variationImage {
			continue
		}
		merged = append(merged, img)
	}
	return merged
}
