package system

import (
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
	"github.com/milk9111/footsteps/footstep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testStep = time.Second / 60

// eventProbe records step events before the world flushes them.
type eventProbe struct {
	walk, run int
	steps     []footstep.Step
}

func (p *eventProbe) Update(w *ecs.World) {
	for _, ev := range w.Events().Peek(EventWalkStep) {
		p.walk++
		p.steps = append(p.steps, ev.Data.(footstep.Step))
	}
	for _, ev := range w.Events().Peek(EventRunStep) {
		p.run++
		p.steps = append(p.steps, ev.Data.(footstep.Step))
	}
}

func spawnWalker(t *testing.T, w *ecs.World, clock footstep.Clock, vx float64) (ecs.Entity, *footstep.Trigger, *cp.Body) {
	t.Helper()
	body := cp.NewBody(1, cp.INFINITY)
	body.SetVelocity(vx, 0)

	trig := footstep.New(footstep.DefaultSettings(),
		[]footstep.Clip{"sfx/walk_1.wav", "sfx/walk_2.wav"},
		[]footstep.Clip{"sfx/run_1.wav", "sfx/run_2.wav"},
		footstep.WithClock(clock))

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 100, Y: 200}))
	require.NoError(t, ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body, Width: 10, Height: 20}))
	require.NoError(t, ecs.Add(w, e, component.CameraRigComponent.Kind(), &component.CameraRig{HeadOffset: 10, Height: 30}))
	require.NoError(t, ecs.Add(w, e, component.FootstepsComponent.Kind(), &component.Footsteps{Trigger: trig, PixelsPerMeter: 64}))
	return e, trig, body
}

func countRequests(w *ecs.World) []component.SFXRequest {
	var out []component.SFXRequest
	ecs.ForEach(w, component.SFXRequestComponent.Kind(), func(_ ecs.Entity, req *component.SFXRequest) {
		out = append(out, *req)
	})
	return out
}

func TestFootstepSystemPublishesSteps(t *testing.T) {
	w := ecs.NewWorld()
	footSys := NewFootstepSystem(testStep, nil)
	probe := &eventProbe{}
	w.AddSystem(footSys)
	w.AddSystem(probe)

	e, _, _ := spawnWalker(t, w, footSys.Clock(), 128)

	for i := 0; i < 60; i++ {
		w.Update()
	}

	assert.Equal(t, 2, probe.walk)
	assert.Zero(t, probe.run)

	fs, ok := ecs.Get(w, e, component.FootstepsComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 2, fs.WalkSteps)

	reqs := countRequests(w)
	require.Len(t, reqs, 2)
	for _, req := range reqs {
		assert.InDelta(t, 100, req.X, 1e-9)
		// Camera at 190px, ground 30px below it.
		assert.InDelta(t, 220, req.Y, 1e-9)
		assert.InDelta(t, 0.5, req.Volume, 0.2)
	}
	assert.NotEqual(t, reqs[0].Clip, reqs[1].Clip)
}

func TestFootstepSystemRunSpeed(t *testing.T) {
	w := ecs.NewWorld()
	footSys := NewFootstepSystem(testStep, nil)
	probe := &eventProbe{}
	w.AddSystem(footSys)
	w.AddSystem(probe)

	spawnWalker(t, w, footSys.Clock(), -320)

	for i := 0; i < 60; i++ {
		w.Update()
	}

	assert.Zero(t, probe.walk)
	assert.Equal(t, 4, probe.run)
	for _, s := range probe.steps {
		assert.Equal(t, footstep.ModeRun, s.Mode)
	}
}

func TestFootstepSystemToggleInput(t *testing.T) {
	w := ecs.NewWorld()
	footSys := NewFootstepSystem(testStep, nil)
	w.AddSystem(footSys)

	e, trig, _ := spawnWalker(t, w, footSys.Clock(), 128)
	input := &component.Input{ToggleFootsteps: true, ToggleGizmo: true}
	require.NoError(t, ecs.Add(w, e, component.InputComponent.Kind(), input))

	w.Update()
	assert.False(t, trig.Enabled())
	fs, _ := ecs.Get(w, e, component.FootstepsComponent.Kind())
	assert.True(t, fs.Gizmo)
	assert.Empty(t, countRequests(w))

	input.ToggleFootsteps = false
	input.ToggleGizmo = false
	w.Update()
	assert.False(t, trig.Enabled())
}

func TestFootstepSystemReleasesDestroyedEntities(t *testing.T) {
	w := ecs.NewWorld()
	footSys := NewFootstepSystem(testStep, nil)
	probe := &eventProbe{}
	w.AddSystem(footSys)
	w.AddSystem(probe)

	e, trig, _ := spawnWalker(t, w, footSys.Clock(), 128)
	w.Update()
	require.Equal(t, 1, probe.walk)

	require.True(t, ecs.DestroyEntity(w, e))
	w.Update()

	footSys.Clock().Advance(time.Second)
	trig.Update(2.0)
	w.Update()

	assert.Equal(t, 1, probe.walk)
	assert.Len(t, countRequests(w), 1)
}

func TestAudioSystemDropsWithoutBank(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	w.AddSystem(NewAudioSystem(func(string, float64) (*audio.Player, error) {
		calls++
		return nil, errors.New("unreachable")
	}, nil))

	RequestSFX(w, &component.SFXRequest{Clip: "sfx/walk_1.wav", Volume: 1})
	RequestSFX(w, &component.SFXRequest{Clip: ""})
	require.Len(t, countRequests(w), 1)

	w.Update()
	assert.Empty(t, countRequests(w))
	assert.Zero(t, calls)

	bank := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, bank, component.SFXBankComponent.Kind(), &component.SFXBank{Muted: true}))
	RequestSFX(w, &component.SFXRequest{Clip: "sfx/walk_1.wav", Volume: 1})
	w.Update()
	assert.Empty(t, countRequests(w))
	assert.Zero(t, calls)
}

func TestAudioSystemLogsLoadFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := ecs.NewWorld()
	var gotClip string
	var gotPitch float64
	w.AddSystem(NewAudioSystem(func(clip string, pitch float64) (*audio.Player, error) {
		gotClip, gotPitch = clip, pitch
		return nil, errors.New("no such clip")
	}, zap.New(core)))

	bank := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, bank, component.SFXBankComponent.Kind(), &component.SFXBank{}))

	NewSFXQueue(w, 64).PlaySFX("sfx/missing.wav", footstep.Vec3{X: 1, Y: -2}, 1.05, 0.4)
	reqs := countRequests(w)
	require.Len(t, reqs, 1)
	assert.InDelta(t, 64, reqs[0].X, 1e-9)
	assert.InDelta(t, 128, reqs[0].Y, 1e-9)

	w.Update()

	assert.Equal(t, "sfx/missing.wav", gotClip)
	assert.InDelta(t, 1.05, gotPitch, 1e-9)
	assert.Empty(t, countRequests(w))
	assert.Equal(t, 1, logs.FilterMessage("sfx load failed").Len())

	b, ok := ecs.Get(w, bank, component.SFXBankComponent.Kind())
	require.True(t, ok)
	assert.Empty(t, b.Active)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, clampVolume(-0.3))
	assert.Equal(t, 0.7, clampVolume(0.7))
	assert.Equal(t, 1.0, clampVolume(1.2))
}
