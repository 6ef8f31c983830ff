package footstep

import "math/rand/v2"

// pickIndex chooses a clip index in [0, n) that differs from last whenever
// n > 1. Rejection sampling is capped at n attempts before falling back to a
// uniform pick among the remaining indices.
func pickIndex(r *rand.Rand, n, last int) int {
	if n <= 1 {
		return 0
	}
	for range n {
		if i := r.IntN(n); i != last {
			return i
		}
	}
	i := r.IntN(n - 1)
	if last >= 0 && i >= last {
		i++
	}
	return i
}

// jitter returns base offset by a uniform sample in [-spread, +spread].
func jitter(r *rand.Rand, base, spread float64) float64 {
	if spread <= 0 {
		return base
	}
	return base + (r.Float64()*2-1)*spread
}
