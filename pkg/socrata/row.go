package socrata

import (
	"fmt"
	"strings"
)

// Field returns the value at key as a trimmed string, or "" when the
// key is absent or null. Socrata serves most columns as strings but
// numeric columns can arrive as float64.
func Field(row Row, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// Quote escapes a literal value for embedding in a SoQL where clause.
// Single quotes are doubled per SoQL string syntax.
func Quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
