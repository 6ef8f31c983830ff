package common

import (
	"cmp"
	"image/color"
)

func Lerp[T ~float32 | ~float64](a, b, t T) T {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// LerpColor blends from a to b; t is clamped to [0, 1].
func LerpColor(a, b color.Color, t float32) color.RGBA {
	t = Clamp(t, 0, 1)
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	ch := func(x, y uint32) uint8 {
		return uint8(Lerp(float32(x>>8), float32(y>>8), t) + 0.5)
	}
	return color.RGBA{R: ch(ar, br), G: ch(ag, bg), B: ch(ab, bb), A: ch(aa, ba)}
}
