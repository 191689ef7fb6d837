// Package slicest carries small generic slice helpers used across the
// codebase.
package slicest

// Map transforms every element of s through fn and returns the results
// in order.
func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	result := make([]U, len(s))
	for i, t := range s {
		result[i] = fn(t)
	}
	return result
}

// Reduce folds s into a single value, starting from U's zero value.
func Reduce[T any, S ~[]T, U any](s S, fn func(T, U) U) U {
	var acc U
	for _, t := range s {
		acc = fn(t, acc)
	}
	return acc
}
