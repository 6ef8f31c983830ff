package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
)

const (
	gravity          = 1800.0
	floorThickness   = 4.0
	defaultBodyMass  = 1.0
	defaultFriction  = 0.9
	physicsIteration = 20
)

// PhysicsSystem owns the Chipmunk space. Bodies are created on first sight of
// a PhysicsBody component and transforms follow the simulated positions.
type PhysicsSystem struct {
	space *cp.Space
	dt    float64

	bodies map[ecs.Entity]*cp.Body
}

// NewPhysicsSystem creates a space with a static floor spanning [0, width]
// at floorY.
func NewPhysicsSystem(step time.Duration, width, floorY float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = physicsIteration
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	floor := cp.NewSegment(space.StaticBody, cp.Vector{X: -width, Y: floorY}, cp.Vector{X: 2 * width, Y: floorY}, floorThickness)
	floor.SetFriction(defaultFriction)
	space.AddShape(floor)

	return &PhysicsSystem{
		space:  space,
		dt:     step.Seconds(),
		bodies: make(map[ecs.Entity]*cp.Body),
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	for e, body := range ps.bodies {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		body.EachShape(func(s *cp.Shape) { ps.space.RemoveShape(s) })
		ps.space.RemoveBody(body)
		delete(ps.bodies, e)
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			if pb.Body == nil {
				ps.ensureBody(e, pb, t)
			}
		})

	ps.space.Step(ps.dt)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			if pb.Body == nil || pb.Static {
				return
			}
			pos := pb.Body.Position()
			t.X = pos.X
			t.Y = pos.Y
			t.Rotation = pb.Body.Angle()
		})
}

func (ps *PhysicsSystem) ensureBody(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
	mass := pb.Mass
	if mass <= 0 {
		mass = defaultBodyMass
	}
	friction := pb.Friction
	if friction <= 0 {
		friction = defaultFriction
	}

	var body *cp.Body
	if pb.Static {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(mass, cp.INFINITY)
	}
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
	ps.space.AddBody(body)

	shape := cp.NewBox(body, pb.Width, pb.Height, 0)
	shape.SetFriction(friction)
	ps.space.AddShape(shape)

	pb.Body = body
	pb.Shape = shape
	ps.bodies[e] = body
}
