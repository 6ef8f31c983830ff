package footstep

import (
	"sync/atomic"
	"time"
)

// Clock reports elapsed simulation time. Cooldowns are deadlines on this clock.
type Clock interface {
	Now() time.Duration
}

// StepClock is advanced manually, usually once per fixed physics step.
type StepClock struct {
	now atomic.Int64
}

func NewStepClock() *StepClock {
	return &StepClock{}
}

// Advance moves the clock forward by dt. Negative steps are ignored.
func (c *StepClock) Advance(dt time.Duration) {
	if c == nil || dt <= 0 {
		return
	}
	c.now.Add(int64(dt))
}

func (c *StepClock) Now() time.Duration {
	if c == nil {
		return 0
	}
	return time.Duration(c.now.Load())
}

// WallClock reports monotonic time since it was created.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}
