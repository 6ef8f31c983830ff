// Package sim replays a scripted speed profile through a footstep trigger on
// a fixed-step clock, without a window or an audio device.
package sim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/footsteps/footstep"
)

var ErrEmptyProfile = errors.New("sim: empty speed profile")

// Segment holds a constant speed for a duration.
type Segment struct {
	Speed    float64
	Duration time.Duration
}

type Profile []Segment

// ParseProfile reads "speed:duration" pairs separated by commas, for example
// "2.0:5s,4:2s,0:500ms".
func ParseProfile(s string) (Profile, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyProfile
	}
	var out Profile
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		speedStr, durStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("sim: segment %q: want speed:duration", part)
		}
		speed, err := strconv.ParseFloat(strings.TrimSpace(speedStr), 64)
		if err != nil {
			return nil, fmt.Errorf("sim: segment %q: speed: %w", part, err)
		}
		if speed < 0 {
			return nil, fmt.Errorf("sim: segment %q: negative speed", part)
		}
		dur, err := time.ParseDuration(strings.TrimSpace(durStr))
		if err != nil {
			return nil, fmt.Errorf("sim: segment %q: duration: %w", part, err)
		}
		if dur <= 0 {
			return nil, fmt.Errorf("sim: segment %q: duration must be positive", part)
		}
		out = append(out, Segment{Speed: speed, Duration: dur})
	}
	if len(out) == 0 {
		return nil, ErrEmptyProfile
	}
	return out, nil
}

func (p Profile) Duration() time.Duration {
	var total time.Duration
	for _, seg := range p {
		total += seg.Duration
	}
	return total
}

// SpeedAt returns the profile speed at elapsed time at; past the end it is 0.
func (p Profile) SpeedAt(at time.Duration) float64 {
	for _, seg := range p {
		if at < seg.Duration {
			return seg.Speed
		}
		at -= seg.Duration
	}
	return 0
}

// Event is one step observed during a run.
type Event struct {
	At   time.Duration
	Tick int
	Step footstep.Step
}

// Pacer is called before every tick with the simulated time elapsed so far.
type Pacer func(elapsed time.Duration)

type runConfig struct {
	pace Pacer
}

type RunOption func(*runConfig)

// WithPacer holds each tick until pace returns.
func WithPacer(pace Pacer) RunOption {
	return func(c *runConfig) { c.pace = pace }
}

// RealTime returns a Pacer that keeps simulated time in step with the wall
// clock, so steps are heard at the cadence they fire.
func RealTime() Pacer {
	var start time.Time
	return func(elapsed time.Duration) {
		if start.IsZero() {
			start = time.Now()
			return
		}
		if wait := elapsed - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
	}
}

// Run ticks the trigger once per step until the profile ends. The trigger
// must have been built with clock. Without a pacer it runs as fast as it can.
func Run(t *footstep.Trigger, clock *footstep.StepClock, profile Profile, step time.Duration, opts ...RunOption) ([]Event, error) {
	if t == nil || clock == nil {
		return nil, errors.New("sim: trigger and clock are required")
	}
	if step <= 0 {
		return nil, fmt.Errorf("sim: tick step must be positive, got %s", step)
	}
	if len(profile) == 0 {
		return nil, ErrEmptyProfile
	}

	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var events []Event
	tick := 0
	start := clock.Now()
	record := func(s footstep.Step) {
		events = append(events, Event{At: clock.Now() - start, Tick: tick, Step: s})
	}
	unsubWalk := t.OnWalkStep(record)
	unsubRun := t.OnRunStep(record)
	defer unsubWalk()
	defer unsubRun()

	end := profile.Duration()
	for ; clock.Now()-start < end; tick++ {
		elapsed := clock.Now() - start
		if cfg.pace != nil {
			cfg.pace(elapsed)
		}
		t.Update(profile.SpeedAt(elapsed))
		clock.Advance(step)
	}
	return events, nil
}

// Summary counts steps per mode.
func Summary(events []Event) (walk, run int) {
	for _, e := range events {
		switch e.Step.Mode {
		case footstep.ModeWalk:
			walk++
		case footstep.ModeRun:
			run++
		}
	}
	return walk, run
}
