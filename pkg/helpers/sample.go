package helpers

import "math/rand"

// ReservoirSample picks k items uniformly at random from items without
// shuffling the input. When len(items) <= k the whole set is returned (in
// input order). The result is not deterministic across calls.
func ReservoirSample[T any](items []T, k int) []T {
	if k <= 0 {
		return nil
	}
	if len(items) <= k {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	out := make([]T, k)
	copy(out, items[:k])
	for i := k; i < len(items); i++ {
		j := rand.Intn(i + 1)
		if j < k {
			out[j] = items[i]
		}
	}
	return out
}
