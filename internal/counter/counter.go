// Package counter implements a sparse multiset keyed by comparable ids.
//
// Every operation is pure: the receiver is never modified and a fresh
// counter is returned. A key whose count drops to zero or below is deleted,
// so a stored count is always positive.
package counter

import (
	"cmp"
	"maps"
	"slices"
)

// Counter maps a key to a positive count. Absent keys count as zero.
type Counter[K cmp.Ordered] map[K]int

// FromSlice counts the occurrences of every key in ids.
func FromSlice[K cmp.Ordered](ids []K) Counter[K] {
	c := make(Counter[K], len(ids))
	for _, id := range ids {
		c[id]++
	}
	return c
}

// Clone returns an independent copy of c.
func Clone[K cmp.Ordered](c Counter[K]) Counter[K] {
	out := make(Counter[K], len(c))
	for k, n := range c {
		if n > 0 {
			out[k] = n
		}
	}
	return out
}

// Add returns c with n more copies of key. Non-positive n is a no-op.
func Add[K cmp.Ordered](c Counter[K], key K, n int) Counter[K] {
	out := Clone(c)
	if n <= 0 {
		return out
	}
	out[key] += n
	return out
}

// Sub returns c with n fewer copies of key, clamped at zero.
func Sub[K cmp.Ordered](c Counter[K], key K, n int) Counter[K] {
	out := Clone(c)
	if n <= 0 {
		return out
	}
	if out[key] <= n {
		delete(out, key)
		return out
	}
	out[key] -= n
	return out
}

// Total returns the sum of all counts.
func Total[K cmp.Ordered](c Counter[K]) int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the keys of c in ascending order.
func Keys[K cmp.Ordered](c Counter[K]) []K {
	return slices.Sorted(maps.Keys(c))
}

// ToSlice expands c into a flat list with each key repeated by its count.
// Keys appear in ascending order so that a seeded shuffle of the result is
// reproducible.
func ToSlice[K cmp.Ordered](c Counter[K]) []K {
	out := make([]K, 0, Total(c))
	for _, k := range Keys(c) {
		for range c[k] {
			out = append(out, k)
		}
	}
	return out
}

// Merge sums any number of counters.
func Merge[K cmp.Ordered](cs ...Counter[K]) Counter[K] {
	out := make(Counter[K])
	for _, c := range cs {
		for k, n := range c {
			if n > 0 {
				out[k] += n
			}
		}
	}
	return out
}

// Subtract removes every count in b from a, clamping each key at zero.
func Subtract[K cmp.Ordered](a, b Counter[K]) Counter[K] {
	out := Clone(a)
	for k, n := range b {
		out = Sub(out, k, n)
	}
	return out
}

// Missing reports how many of each key need has that have lacks.
func Missing[K cmp.Ordered](have, need Counter[K]) Counter[K] {
	out := make(Counter[K])
	for k, n := range need {
		if d := n - have[k]; d > 0 {
			out[k] = d
		}
	}
	return out
}

// Contains reports whether have holds at least every count in need.
func Contains[K cmp.Ordered](have, need Counter[K]) bool {
	return len(Missing(have, need)) == 0
}
