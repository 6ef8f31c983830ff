package footstep

import "time"

// Mode is the locomotion class a speed sample falls into.
type Mode int

const (
	ModeNone Mode = iota
	ModeWalk
	ModeRun
)

func (m Mode) String() string {
	switch m {
	case ModeWalk:
		return "walk"
	case ModeRun:
		return "run"
	default:
		return "none"
	}
}

// ModeSettings holds the per-mode tuning values.
type ModeSettings struct {
	Cooldown  time.Duration
	Threshold float64
	Volume    float64
	Pitch     float64
}

// Settings is the full tuning surface of a Trigger. Clip sets are kept
// separately so they can be swapped with Reconfigure.
type Settings struct {
	Walk ModeSettings
	Run  ModeSettings

	PitchJitter  float64
	VolumeJitter float64

	Enabled     bool
	DebugGizmos bool
}

const (
	DefaultWalkCooldown  = 700 * time.Millisecond
	DefaultRunCooldown   = 300 * time.Millisecond
	DefaultWalkThreshold = 1.4
	DefaultRunThreshold  = 3.4
	DefaultWalkVolume    = 0.5
	DefaultRunVolume     = 1.0
	DefaultPitch         = 1.0
	DefaultPitchJitter   = 0.1
	DefaultVolumeJitter  = 0.2
)

// DefaultSettings returns the stock tuning for a walking/running player.
func DefaultSettings() Settings {
	return Settings{
		Walk: ModeSettings{
			Cooldown:  DefaultWalkCooldown,
			Threshold: DefaultWalkThreshold,
			Volume:    DefaultWalkVolume,
			Pitch:     DefaultPitch,
		},
		Run: ModeSettings{
			Cooldown:  DefaultRunCooldown,
			Threshold: DefaultRunThreshold,
			Volume:    DefaultRunVolume,
			Pitch:     DefaultPitch,
		},
		PitchJitter:  DefaultPitchJitter,
		VolumeJitter: DefaultVolumeJitter,
		Enabled:      true,
	}
}

// Classify maps a speed sample to a mode. The run threshold wins when both
// thresholds are met.
func (s Settings) Classify(speed float64) Mode {
	switch {
	case speed >= s.Run.Threshold:
		return ModeRun
	case speed >= s.Walk.Threshold:
		return ModeWalk
	default:
		return ModeNone
	}
}

func (s Settings) mode(m Mode) ModeSettings {
	if m == ModeRun {
		return s.Run
	}
	return s.Walk
}
