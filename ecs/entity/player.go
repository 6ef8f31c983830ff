package entity

import (
	"fmt"

	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
	"github.com/milk9111/footsteps/footstep"
	"github.com/milk9111/footsteps/prefabs"
)

const (
	PlayerWidth  = 24.0
	PlayerHeight = 48.0

	// The camera sits 4px below the top of the box and the ground is the
	// bottom edge.
	playerHeadOffset   = PlayerHeight/2 - 4
	playerCameraHeight = PlayerHeight - 4
)

// NewPlayerAt spawns the controllable player centered at x, y with a
// footstep trigger built from spec.
func NewPlayerAt(w *ecs.World, x, y float64, spec prefabs.FootstepSpec, opts ...footstep.Option) (ecs.Entity, error) {
	trig := spec.NewTrigger(opts...)

	e, err := BuildEntity(w, "player",
		with(component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		with(component.InputComponent.Kind(), &component.Input{}),
		with(component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:  PlayerWidth,
			Height: PlayerHeight,
			Mass:   1,
		}),
		with(component.CameraRigComponent.Kind(), &component.CameraRig{
			HeadOffset: playerHeadOffset,
			Height:     playerCameraHeight,
		}),
		with(component.FootstepsComponent.Kind(), &component.Footsteps{
			Trigger:        trig,
			PixelsPerMeter: spec.PixelsPerMeter,
			Gizmo:          spec.DebugGizmos,
		}),
	)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return e, nil
}
