// Package foundation holds small generic helpers shared across packages.
package foundation

import (
	"maps"
	"slices"
	"strings"
)

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalizer maps loosely written names onto enum values. Lookups ignore
// case and surrounding whitespace.
type Normalizer[T comparable] struct {
	values map[string]T
}

// NewNormalizer builds a Normalizer from name/value pairs.
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values))}
	for k, v := range values {
		n.values[normalizeKey(k)] = v
	}
	return n
}

// Parse returns the value registered for raw.
func (n *Normalizer[T]) Parse(raw string) (T, bool) {
	v, ok := n.values[normalizeKey(raw)]
	return v, ok
}

// Keys lists the accepted names in sorted order.
func (n *Normalizer[T]) Keys() []string {
	return slices.Sorted(maps.Keys(n.values))
}
