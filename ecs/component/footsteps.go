package component

import "github.com/milk9111/footsteps/footstep"

// Footsteps attaches a footstep trigger to a moving body.
type Footsteps struct {
	Trigger *footstep.Trigger
	// PixelsPerMeter converts body velocity into the trigger's speed units.
	PixelsPerMeter float64
	// Gizmo draws the ground probe when the trigger's settings allow it.
	Gizmo bool

	// Steps counts triggered steps for HUD output.
	WalkSteps int
	RunSteps  int
}

var FootstepsComponent = NewComponent[Footsteps]()
