// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with small generic
helpers for request normalisation.
*/
package slice

// Map applies transform to every element. A nil input yields an empty,
// non-nil slice so results serialise as [] rather than null.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter keeps the elements for which predicate returns true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	result := make([]T, 0, len(input))
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// Unique drops repeated elements, keeping the first occurrence of each.
func Unique[T comparable](input []T) []T {
	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
