package system

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
	"github.com/milk9111/footsteps/footstep"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	EventWalkStep = "footstep_walk"
	EventRunStep  = "footstep_run"

	defaultPixelsPerMeter = 64.0
	gizmoRadiusMeters     = 0.2
)

var gizmoColor color.Color = colornames.Magenta

// FootstepSystem feeds body speed into each entity's footstep trigger once
// per fixed step and republishes steps as world events.
type FootstepSystem struct {
	clock *footstep.StepClock
	step  time.Duration
	log   *zap.Logger

	hooked map[ecs.Entity]func()
}

// NewFootstepSystem creates a system that advances its clock by step on
// every update. Triggers attached to entities should be built with Clock().
func NewFootstepSystem(step time.Duration, log *zap.Logger) *FootstepSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &FootstepSystem{
		clock:  footstep.NewStepClock(),
		step:   step,
		log:    log.Named("footstep_system"),
		hooked: make(map[ecs.Entity]func()),
	}
}

// Clock is the simulation clock shared by every trigger this system drives.
func (s *FootstepSystem) Clock() *footstep.StepClock {
	if s == nil {
		return nil
	}
	return s.clock
}

func (s *FootstepSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.clock.Advance(s.step)
	s.releaseDead(w)

	ecs.ForEach3(w, component.FootstepsComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, fs *component.Footsteps, body *component.PhysicsBody, _ *component.Transform) {
			if fs.Trigger == nil {
				return
			}
			s.hook(w, e, fs)

			if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
				if input.ToggleFootsteps {
					fs.Trigger.SetEnabled(!fs.Trigger.Enabled())
					s.log.Info("footsteps toggled", zap.Stringer("entity", e), zap.Bool("enabled", fs.Trigger.Enabled()))
				}
				if input.ToggleGizmo {
					fs.Gizmo = !fs.Gizmo
				}
			}

			speed := 0.0
			if body.Body != nil {
				speed = body.Body.Velocity().Length() / pixelsPerMeter(fs)
			}
			fs.Trigger.Update(speed)
		})
}

// hook wires the trigger to this world the first time an entity is seen.
func (s *FootstepSystem) hook(w *ecs.World, e ecs.Entity, fs *component.Footsteps) {
	if _, ok := s.hooked[e]; ok {
		return
	}

	fs.Trigger.SetAnchor(&rigAnchor{w: w, e: e, ppm: pixelsPerMeter(fs)})
	fs.Trigger.SetPlayer(NewSFXQueue(w, pixelsPerMeter(fs)))

	publish := func(eventType string) footstep.Listener {
		return func(step footstep.Step) {
			if cur, ok := ecs.Get(w, e, component.FootstepsComponent.Kind()); ok {
				if step.Mode == footstep.ModeRun {
					cur.RunSteps++
				} else {
					cur.WalkSteps++
				}
			}
			w.Events().Push(ecs.Event{Type: eventType, Entity: e, Data: step})
		}
	}
	unsubWalk := fs.Trigger.OnWalkStep(publish(EventWalkStep))
	unsubRun := fs.Trigger.OnRunStep(publish(EventRunStep))
	trig := fs.Trigger
	s.hooked[e] = func() {
		unsubWalk()
		unsubRun()
		trig.SetPlayer(nil)
		trig.SetAnchor(nil)
	}
}

func (s *FootstepSystem) releaseDead(w *ecs.World) {
	for e, unhook := range s.hooked {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.FootstepsComponent.Kind()) {
			unhook()
			delete(s.hooked, e)
		}
	}
}

// Draw renders the ground probe for entities with the gizmo enabled.
func (s *FootstepSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if s == nil || w == nil || screen == nil {
		return
	}
	ecs.ForEach(w, component.FootstepsComponent.Kind(), func(_ ecs.Entity, fs *component.Footsteps) {
		if fs.Trigger == nil {
			return
		}
		if !fs.Gizmo && !fs.Trigger.Settings().DebugGizmos {
			return
		}
		pos, ok := fs.Trigger.RefreshProbe()
		if !ok {
			return
		}
		ppm := pixelsPerMeter(fs)
		x, y := fromWorld(pos, ppm)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(gizmoRadiusMeters*ppm), 1.5, gizmoColor, true)
	})
}

// rigAnchor reads the camera rig of a live entity on demand.
type rigAnchor struct {
	w   *ecs.World
	e   ecs.Entity
	ppm float64
}

func (a *rigAnchor) CameraPosition() footstep.Vec3 {
	t, ok := ecs.Get(a.w, a.e, component.TransformComponent.Kind())
	if !ok {
		return footstep.Vec3{}
	}
	y := t.Y
	if rig, ok := ecs.Get(a.w, a.e, component.CameraRigComponent.Kind()); ok {
		y -= rig.HeadOffset
	}
	return toWorld(t.X, y, a.ppm)
}

func (a *rigAnchor) CameraHeight() float64 {
	rig, ok := ecs.Get(a.w, a.e, component.CameraRigComponent.Kind())
	if !ok {
		return 0
	}
	return rig.Height / a.ppm
}

func pixelsPerMeter(fs *component.Footsteps) float64 {
	if fs == nil || fs.PixelsPerMeter <= 0 {
		return defaultPixelsPerMeter
	}
	return fs.PixelsPerMeter
}

// toWorld converts screen pixels (Y down) into meters (Y up).
func toWorld(x, y, ppm float64) footstep.Vec3 {
	return footstep.Vec3{X: x / ppm, Y: -y / ppm}
}

func fromWorld(v footstep.Vec3, ppm float64) (x, y float64) {
	return v.X * ppm, -v.Y * ppm
}
