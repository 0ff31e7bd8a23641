package postgres

import (
	"strings"
)

// escapeLikePattern escapes PostgreSQL LIKE wildcard characters (% and _)
// so they are treated as literal characters in LIKE patterns.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
