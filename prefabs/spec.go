package prefabs

import (
	"fmt"
	"os"
	"time"

	"github.com/milk9111/footsteps/footstep"
	"gopkg.in/yaml.v3"
)

const FootstepsPrefab = "footsteps.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// FootstepModeSpec tunes one locomotion mode. Nil fields keep the default;
// an explicit zero is honoured.
type FootstepModeSpec struct {
	Clips     []string       `yaml:"clips"`
	Cooldown  *time.Duration `yaml:"cooldown"`
	Threshold *float64       `yaml:"threshold"`
	Volume    *float64       `yaml:"volume"`
	Pitch     *float64       `yaml:"pitch"`
}

type JitterSpec struct {
	Pitch  *float64 `yaml:"pitch"`
	Volume *float64 `yaml:"volume"`
}

// FootstepSpec is the on-disk form of a footstep trigger. Missing numeric
// keys fall back to footstep.DefaultSettings; a missing enabled key means
// enabled.
type FootstepSpec struct {
	Name           string           `yaml:"name"`
	Enabled        *bool            `yaml:"enabled"`
	DebugGizmos    bool             `yaml:"debug_gizmos"`
	PixelsPerMeter float64          `yaml:"pixels_per_meter"`
	Walk           FootstepModeSpec `yaml:"walk"`
	Run            FootstepModeSpec `yaml:"run"`
	Jitter         JitterSpec       `yaml:"jitter"`
}

func LoadFootstepSpec(name string) (FootstepSpec, error) {
	return LoadSpec[FootstepSpec](name)
}

// LoadFootstepSpecFile reads a spec from an arbitrary path on disk.
func LoadFootstepSpecFile(path string) (FootstepSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FootstepSpec{}, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	spec, err := DecodeFootstepSpec(data)
	if err != nil {
		return FootstepSpec{}, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	return spec, nil
}

func DecodeFootstepSpec(data []byte) (FootstepSpec, error) {
	var spec FootstepSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return FootstepSpec{}, err
	}
	return spec, nil
}

// Settings resolves the prefab against the stock defaults.
func (s FootstepSpec) Settings() footstep.Settings {
	out := footstep.DefaultSettings()
	out.Walk = s.Walk.apply(out.Walk)
	out.Run = s.Run.apply(out.Run)
	if s.Jitter.Pitch != nil {
		out.PitchJitter = *s.Jitter.Pitch
	}
	if s.Jitter.Volume != nil {
		out.VolumeJitter = *s.Jitter.Volume
	}
	if s.Enabled != nil {
		out.Enabled = *s.Enabled
	}
	out.DebugGizmos = s.DebugGizmos
	return out
}

func (m FootstepModeSpec) apply(base footstep.ModeSettings) footstep.ModeSettings {
	if m.Cooldown != nil {
		base.Cooldown = max(*m.Cooldown, 0)
	}
	if m.Threshold != nil {
		base.Threshold = max(*m.Threshold, 0)
	}
	if m.Volume != nil {
		base.Volume = max(*m.Volume, 0)
	}
	if m.Pitch != nil {
		base.Pitch = *m.Pitch
	}
	return base
}

func (s FootstepSpec) WalkClips() []footstep.Clip {
	return toClips(s.Walk.Clips)
}

func (s FootstepSpec) RunClips() []footstep.Clip {
	return toClips(s.Run.Clips)
}

// Apply pushes the prefab into a running trigger. Without an enabled key the
// trigger keeps whatever on/off state it was last given.
func (s FootstepSpec) Apply(t *footstep.Trigger) {
	if t == nil {
		return
	}
	settings := s.Settings()
	if s.Enabled == nil {
		settings.Enabled = t.EnabledSetting()
	}
	t.Reconfigure(s.WalkClips(), s.RunClips())
	t.SetSettings(settings)
}

// NewTrigger builds a trigger from the prefab.
func (s FootstepSpec) NewTrigger(opts ...footstep.Option) *footstep.Trigger {
	return footstep.New(s.Settings(), s.WalkClips(), s.RunClips(), opts...)
}

// MissingClips returns the clip names, walk first, that exists rejects.
func (s FootstepSpec) MissingClips(exists func(string) bool) []string {
	var missing []string
	for _, c := range append(s.WalkClips(), s.RunClips()...) {
		if !exists(string(c)) {
			missing = append(missing, string(c))
		}
	}
	return missing
}

func toClips(names []string) []footstep.Clip {
	if len(names) == 0 {
		return nil
	}
	out := make([]footstep.Clip, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		out = append(out, footstep.Clip(n))
	}
	return out
}
