package catalog

// ComposeName returns the display name stored for a product: the base name
// followed by " - <size>" when a size is set.
func ComposeName(base, size string) string {
	if size == "" {
		return base
	}
	return base + " - " + size
}
