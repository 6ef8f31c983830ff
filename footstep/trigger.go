// Package footstep turns per-tick locomotion speed into rate-limited footstep
// sounds. A Trigger classifies each speed sample as walk or run, and when the
// shared cooldown is ready it plays a random clip at the ground position and
// notifies listeners.
package footstep

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Vec3 is a world-space position.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Clip names an audio asset.
type Clip string

// Step describes one triggered footstep.
type Step struct {
	Mode     Mode
	Clip     Clip
	Index    int
	Position Vec3
	Pitch    float64
	Volume   float64
}

// Listener is notified synchronously after a step's playback was requested.
type Listener func(Step)

// Player plays a one-shot clip. Implementations must not block the caller.
type Player interface {
	PlaySFX(clip Clip, at Vec3, pitch, volume float64)
}

// GroundAnchor locates the player's viewpoint. The ground is assumed to be
// CameraHeight below CameraPosition.
type GroundAnchor interface {
	CameraPosition() Vec3
	CameraHeight() float64
}

// CooldownState is the readiness of a single mode.
type CooldownState int

const (
	Ready CooldownState = iota
	CoolingDown
)

func (s CooldownState) String() string {
	if s == CoolingDown {
		return "cooling_down"
	}
	return "ready"
}

type listenerEntry struct {
	id int
	fn Listener
}

// Trigger is the footstep state machine. Walk and run share one cooldown, so
// a step of either mode blocks both until it expires.
type Trigger struct {
	mu sync.Mutex

	settings Settings
	walk     []Clip
	run      []Clip
	enabled  bool

	busy    bool
	pending Mode
	readyAt time.Duration

	lastWalk int
	lastRun  int

	ground Vec3
	probed bool

	listeners      map[Mode][]listenerEntry
	nextListenerID int

	player Player
	anchor GroundAnchor
	clock  Clock
	rng    *rand.Rand
	log    *zap.Logger
}

type Option func(*Trigger)

func WithPlayer(p Player) Option {
	return func(t *Trigger) { t.player = p }
}

func WithAnchor(a GroundAnchor) Option {
	return func(t *Trigger) { t.anchor = a }
}

func WithClock(c Clock) Option {
	return func(t *Trigger) {
		if c != nil {
			t.clock = c
		}
	}
}

func WithRand(r *rand.Rand) Option {
	return func(t *Trigger) {
		if r != nil {
			t.rng = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Trigger) {
		if l != nil {
			t.log = l
		}
	}
}

// New builds a Trigger. If either clip set is empty the trigger starts
// disabled and logs why.
func New(settings Settings, walk, run []Clip, opts ...Option) *Trigger {
	t := &Trigger{
		settings:  settings,
		walk:      cloneClips(walk),
		run:       cloneClips(run),
		enabled:   settings.Enabled,
		lastWalk:  -1,
		lastRun:   -1,
		listeners: make(map[Mode][]listenerEntry),
		clock:     NewWallClock(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.Named("footsteps")

	if t.enabled {
		t.enabled = t.validateLocked()
	}
	return t
}

func (t *Trigger) validateLocked() bool {
	if len(t.walk) == 0 || len(t.run) == 0 {
		t.log.Warn("no footstep audio clips assigned, disabling footsteps",
			zap.Int("walk_clips", len(t.walk)),
			zap.Int("run_clips", len(t.run)))
		return false
	}
	return true
}

// Update samples the current speed. It is meant to be called once per fixed
// physics step and never blocks.
func (t *Trigger) Update(speed float64) {
	t.mu.Lock()
	t.expireLocked()
	if !t.enabled || t.busy {
		t.mu.Unlock()
		return
	}

	mode := t.settings.Classify(speed)
	if mode == ModeNone {
		t.mu.Unlock()
		return
	}

	step, ok := t.stepLocked(mode)
	if !ok {
		t.mu.Unlock()
		return
	}
	t.startCooldownLocked(mode)

	player := t.player
	listeners := make([]Listener, 0, len(t.listeners[mode]))
	for _, entry := range t.listeners[mode] {
		listeners = append(listeners, entry.fn)
	}
	t.mu.Unlock()

	if player != nil {
		player.PlaySFX(step.Clip, step.Position, step.Pitch, step.Volume)
	}
	for _, fn := range listeners {
		fn(step)
	}
}

func (t *Trigger) stepLocked(mode Mode) (Step, bool) {
	clips, last := t.walk, &t.lastWalk
	if mode == ModeRun {
		clips, last = t.run, &t.lastRun
	}
	if len(clips) == 0 {
		t.log.Debug("skipping footstep, clip set is empty", zap.Stringer("mode", mode))
		return Step{}, false
	}

	idx := pickIndex(t.rng, len(clips), *last)
	*last = idx

	ms := t.settings.mode(mode)
	step := Step{
		Mode:     mode,
		Clip:     clips[idx],
		Index:    idx,
		Position: t.groundLocked(),
		Pitch:    jitter(t.rng, ms.Pitch, t.settings.PitchJitter),
		Volume:   jitter(t.rng, ms.Volume, t.settings.VolumeJitter),
	}
	return step, true
}

func (t *Trigger) groundLocked() Vec3 {
	if t.anchor == nil {
		return t.ground
	}
	t.ground = t.anchor.CameraPosition().Sub(Vec3{Y: t.anchor.CameraHeight()})
	t.probed = true
	return t.ground
}

func (t *Trigger) startCooldownLocked(mode Mode) {
	t.busy = true
	t.pending = mode
	t.readyAt = t.clock.Now() + t.settings.mode(mode).Cooldown
}

func (t *Trigger) expireLocked() {
	if t.busy && t.clock.Now() >= t.readyAt {
		t.busy = false
		t.pending = ModeNone
	}
}

// State reports whether mode is currently cooling down.
func (t *Trigger) State(mode Mode) CooldownState {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked()
	if t.busy && t.pending == mode {
		return CoolingDown
	}
	return Ready
}

// Busy reports whether any mode is cooling down.
func (t *Trigger) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked()
	return t.busy
}

// Reconfigure swaps both clip sets. The next step uses the new sets; a
// running cooldown is left alone.
func (t *Trigger) Reconfigure(walk, run []Clip) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.walk = cloneClips(walk)
	t.run = cloneClips(run)
	t.lastWalk = -1
	t.lastRun = -1
	if len(t.walk) == 0 || len(t.run) == 0 {
		t.log.Warn("footstep clip set replaced with an empty set",
			zap.Int("walk_clips", len(t.walk)),
			zap.Int("run_clips", len(t.run)))
	}
}

// Clips returns copies of the current walk and run clip sets.
func (t *Trigger) Clips() (walk, run []Clip) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneClips(t.walk), cloneClips(t.run)
}

// SetSettings replaces the tuning values. Enabled is applied as with
// SetEnabled.
func (t *Trigger) SetSettings(s Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settings = s
	t.setEnabledLocked(s.Enabled)
}

func (t *Trigger) Settings() Settings {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.settings
	s.Enabled = t.enabled
	return s
}

// SetEnabled turns footsteps on or off. Enabling re-checks the clip sets and
// stays disabled if either is empty. A running cooldown keeps counting while
// disabled.
func (t *Trigger) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setEnabledLocked(enabled)
}

func (t *Trigger) setEnabledLocked(enabled bool) {
	t.settings.Enabled = enabled
	if !enabled {
		t.enabled = false
		return
	}
	t.enabled = t.validateLocked()
}

func (t *Trigger) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// EnabledSetting is the last requested on/off state. It can be true while
// Enabled is false when a clip set is empty.
func (t *Trigger) EnabledSetting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings.Enabled
}

// DebugProbe returns the last computed ground position. ok is false until a
// position has been computed.
func (t *Trigger) DebugProbe() (pos Vec3, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ground, t.probed
}

// RefreshProbe recomputes the ground position from the anchor without
// triggering a step. Hosts drawing a gizmo call it once per frame.
func (t *Trigger) RefreshProbe() (Vec3, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.anchor == nil {
		return t.ground, t.probed
	}
	return t.groundLocked(), true
}

// Subscribe registers fn for steps of mode. The returned func removes it.
func (t *Trigger) Subscribe(mode Mode, fn Listener) (unsubscribe func()) {
	if fn == nil || mode == ModeNone {
		return func() {}
	}

	t.mu.Lock()
	t.nextListenerID++
	id := t.nextListenerID
	t.listeners[mode] = append(t.listeners[mode], listenerEntry{id: id, fn: fn})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			entries := t.listeners[mode]
			for i, e := range entries {
				if e.id == id {
					t.listeners[mode] = append(entries[:i:i], entries[i+1:]...)
					break
				}
			}
		})
	}
}

func (t *Trigger) OnWalkStep(fn Listener) func() {
	return t.Subscribe(ModeWalk, fn)
}

func (t *Trigger) OnRunStep(fn Listener) func() {
	return t.Subscribe(ModeRun, fn)
}

// SetPlayer swaps the audio backend. nil disables playback but steps are
// still counted and announced.
func (t *Trigger) SetPlayer(p Player) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.player = p
}

func (t *Trigger) SetAnchor(a GroundAnchor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.anchor = a
}

func cloneClips(clips []Clip) []Clip {
	if len(clips) == 0 {
		return nil
	}
	return append([]Clip(nil), clips...)
}
