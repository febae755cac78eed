package netx

import "strings"

// Origins is a browser origin allow-list. "*" allows any origin. Entries
// and request origins are compared case-insensitively without a trailing
// slash.
type Origins struct {
	allowed  map[string]bool
	allowAll bool
}

func NewOrigins(list []string) Origins {
	o := Origins{allowed: make(map[string]bool, len(list))}
	for _, s := range list {
		s = normalizeOrigin(s)
		if s == "*" {
			o.allowAll = true
			continue
		}
		if s != "" {
			o.allowed[s] = true
		}
	}
	return o
}

// Allows reports whether origin is on the list. An empty origin is never
// allowed.
func (o Origins) Allows(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	return o.allowAll || o.allowed[origin]
}

func normalizeOrigin(s string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(s), "/"))
}
