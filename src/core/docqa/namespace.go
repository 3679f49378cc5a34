package docqa

import "strings"

// NamespaceMaxLen bounds the derived namespace key.
const NamespaceMaxLen = 50

// ResolveNamespace derives the vector-index namespace for an uploaded file:
// lowercase the filename, replace every character outside [a-z0-9-_] with a
// dash, and truncate to NamespaceMaxLen. The function is deterministic and
// total; it gives no uniqueness guarantee, so two uploads with equal derived
// keys share one namespace.
func ResolveNamespace(filename string) string {
	var b strings.Builder
	b.Grow(len(filename))
	for _, r := range strings.ToLower(filename) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	ns := b.String()
	if len(ns) > NamespaceMaxLen {
		ns = ns[:NamespaceMaxLen]
	}
	return ns
}
