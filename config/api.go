package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Liveness only; everything under /api needs credentials
	return []string{"/api/health"}
}
