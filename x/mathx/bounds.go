package mathx

import "golang.org/x/exp/constraints"

// Between reports whether v lies in the inclusive range [lo, hi]. An empty
// range (lo > hi) contains nothing.
func Between[T constraints.Integer](v, lo, hi T) bool {
	return lo <= v && v <= hi
}

// Clamp pins v into [lo, hi]; lo wins when the range is empty.
func Clamp[T constraints.Integer](v, lo, hi T) T {
	return max(min(v, hi), lo)
}
