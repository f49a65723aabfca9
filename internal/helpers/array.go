// Package helpers holds small generic utilities shared by the UI packages.
package helpers

import "slices"

// ReplaceElement replaces the first element equal to old with replacement.
// It reports whether a replacement happened.
func ReplaceElement[S ~[]E, E comparable](s S, old, replacement E) bool {
	return replaceAt(s, slices.Index(s, old), replacement)
}

// ReplaceFunc replaces the first element matching match with replacement.
// It reports whether a replacement happened.
func ReplaceFunc[S ~[]E, E any](s S, match func(E) bool, replacement E) bool {
	return replaceAt(s, slices.IndexFunc(s, match), replacement)
}

func replaceAt[S ~[]E, E any](s S, i int, replacement E) bool {
	if i < 0 {
		return false
	}
	s[i] = replacement
	return true
}
