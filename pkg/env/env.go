package env

import "os"

// Get reads an environment variable, falling back when unset or empty.
// For everything beyond one-off lookups use pkg/config instead.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
