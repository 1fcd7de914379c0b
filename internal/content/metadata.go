package content

import (
	"fmt"
	"maps"
	"slices"
)

// Metadata is the key/value data attached to an Item. Missing keys read as
// false through Get.
type Metadata map[string]any

// Get returns the value for key or false.
func (m Metadata) Get(key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	return false
}

// Lookup returns the value for key and whether it is set.
func (m Metadata) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// String returns the value for key formatted as a string, or "".
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Keys returns the set keys in sorted order.
func (m Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}
