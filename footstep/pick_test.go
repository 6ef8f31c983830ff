package footstep

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stuckSource makes every IntN call return 0. A raw zero would stall
// IntN's rejection loop for sizes that are not powers of two.
type stuckSource struct{}

func (stuckSource) Uint64() uint64 { return 1 << 62 }

func TestPickIndex(t *testing.T) {
	t.Run("single_clip_ignores_last", func(t *testing.T) {
		r := rand.New(rand.NewPCG(1, 1))
		for i := 0; i < 100; i++ {
			assert.Equal(t, 0, pickIndex(r, 1, 0))
		}
	})

	t.Run("no_previous_pick", func(t *testing.T) {
		r := rand.New(stuckSource{})
		assert.Equal(t, 0, pickIndex(r, 4, -1))
	})

	t.Run("bounded_when_source_keeps_repeating", func(t *testing.T) {
		r := rand.New(stuckSource{})
		assert.Equal(t, 1, pickIndex(r, 3, 0))
	})

	t.Run("covers_all_other_indices", func(t *testing.T) {
		r := rand.New(rand.NewPCG(3, 4))
		seen := make(map[int]int)
		for i := 0; i < 3000; i++ {
			idx := pickIndex(r, 4, 2)
			assert.NotEqual(t, 2, idx)
			seen[idx]++
		}
		assert.Len(t, seen, 3)
	})
}

func TestJitter(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	assert.Equal(t, 1.0, jitter(r, 1.0, 0))
	for i := 0; i < 1000; i++ {
		v := jitter(r, 0.5, 0.2)
		assert.GreaterOrEqual(t, v, 0.3)
		assert.LessOrEqual(t, v, 0.7)
	}
}

func TestStepClock(t *testing.T) {
	c := NewStepClock()
	c.Advance(tick)
	c.Advance(-tick)
	assert.Equal(t, tick, c.Now())

	var nilClock *StepClock
	nilClock.Advance(tick)
	assert.Zero(t, nilClock.Now())
}
