// Package mapst carries small generic map helpers used across the
// codebase.
package mapst

import (
	"cmp"
	"slices"
)

// Keys returns the keys of m in map iteration order.
func Keys[K comparable, V any, M ~map[K]V](m M) []K {
	result := make([]K, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	return result
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any, M ~map[K]V](m M) []K {
	keys := Keys(m)
	slices.Sort(keys)
	return keys
}
