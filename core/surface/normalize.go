package surface

import "strings"

// Normalizer strips origin qualifiers (for example ", Microsoft.Xna.Framework"
// or ", github.com/acme/foo") from type names so that the same type coming
// from two different binaries or modules compares equal.
type Normalizer struct {
	markers []string
}

// NewNormalizer creates a Normalizer for the given qualifier markers.
// Empty and repeated markers are dropped; order is preserved.
func NewNormalizer(markers ...string) Normalizer {
	seen := make(map[string]bool, len(markers))
	kept := make([]string, 0, len(markers))
	for _, m := range markers {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		kept = append(kept, m)
	}
	return Normalizer{markers: kept}
}

// Markers returns a copy of the configured markers.
func (n Normalizer) Markers() []string {
	return append([]string(nil), n.markers...)
}

// With returns a Normalizer that also knows the given markers.
func (n Normalizer) With(markers ...string) Normalizer {
	return NewNormalizer(append(n.Markers(), markers...)...)
}

// Normalize returns name with the trailing origin qualifier removed. The
// first configured marker found in name wins and the name is cut at that
// marker's last occurrence. An empty name stays empty.
func (n Normalizer) Normalize(name string) string {
	if name == "" {
		return ""
	}
	for _, marker := range n.markers {
		if i := strings.LastIndex(name, marker); i >= 0 {
			return name[:i]
		}
	}
	return name
}
