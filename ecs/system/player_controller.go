package system

import (
	"github.com/milk9111/footsteps/common"
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
)

const (
	// Pixels per second at 64 px/m: 2 m/s walking, 5 m/s running.
	playerWalkSpeed = 128.0
	playerRunSpeed  = 320.0
	// Fraction of the gap to the target speed closed each step, so speeding
	// up from a walk passes through intermediate speeds.
	playerAccel = 0.2
	stopEpsilon = 1.0
)

// PlayerControllerSystem eases the player's horizontal velocity toward the
// speed its input asks for.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(
		component.PlayerTagComponent.Kind(),
		component.InputComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	) {
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if input == nil || pb == nil || pb.Body == nil {
			continue
		}

		target := input.MoveX * playerWalkSpeed
		if input.Run {
			target = input.MoveX * playerRunSpeed
		}

		vel := pb.Body.Velocity()
		vel.X = common.Lerp(vel.X, target, playerAccel)
		if target == 0 && vel.X > -stopEpsilon && vel.X < stopEpsilon {
			vel.X = 0
		}
		pb.Body.SetVelocityVector(vel)
		pb.Body.SetAngle(0)
		pb.Body.SetAngularVelocity(0)
	}
}
