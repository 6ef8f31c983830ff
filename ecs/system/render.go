package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/footsteps/common"
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
	"golang.org/x/image/colornames"
)

// RenderSystem draws physics bodies as boxes and a footstep HUD.
type RenderSystem struct {
	floorY float64
	flash  int
}

const stepFlashFrames = 6

func NewRenderSystem(floorY float64) *RenderSystem {
	return &RenderSystem{floorY: floorY}
}

// Update watches this frame's step events to flash the player box.
func (r *RenderSystem) Update(w *ecs.World) {
	if r == nil || w == nil {
		return
	}
	if len(w.Events().Peek(EventWalkStep))+len(w.Events().Peek(EventRunStep)) > 0 {
		r.flash = stepFlashFrames
	} else if r.flash > 0 {
		r.flash--
	}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	bounds := screen.Bounds()
	vector.StrokeLine(screen, 0, float32(r.floorY), float32(bounds.Dx()), float32(r.floorY), 2, colornames.Lightgrey, false)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			var clr color.Color = colornames.Steelblue
			if r.flash > 0 && ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
				clr = common.LerpColor(colornames.Steelblue, colornames.Orange, float32(r.flash)/stepFlashFrames)
			}
			x := t.X - pb.Width/2
			y := t.Y - pb.Height/2
			vector.FillRect(screen, float32(x), float32(y), float32(pb.Width), float32(pb.Height), clr, false)
		})

	ecs.ForEach(w, component.FootstepsComponent.Kind(), func(_ ecs.Entity, fs *component.Footsteps) {
		enabled := fs.Trigger != nil && fs.Trigger.Enabled()
		msg := fmt.Sprintf("footsteps: %v  walk: %d  run: %d\narrows move, shift runs, F1 gizmo, F2 toggle",
			enabled, fs.WalkSteps, fs.RunSteps)
		ebitenutil.DebugPrintAt(screen, msg, 8, 24)
	})
}
