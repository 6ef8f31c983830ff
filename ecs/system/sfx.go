package system

import (
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
	"github.com/milk9111/footsteps/footstep"
)

// SFXQueue turns footstep playback into SFX request entities for the audio
// system to consume on the same frame.
type SFXQueue struct {
	w   *ecs.World
	ppm float64
}

func NewSFXQueue(w *ecs.World, pixelsPerMeter float64) *SFXQueue {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = defaultPixelsPerMeter
	}
	return &SFXQueue{w: w, ppm: pixelsPerMeter}
}

func (q *SFXQueue) PlaySFX(clip footstep.Clip, at footstep.Vec3, pitch, volume float64) {
	if q == nil || q.w == nil {
		return
	}
	x, y := fromWorld(at, q.ppm)
	RequestSFX(q.w, &component.SFXRequest{
		Clip:   string(clip),
		X:      x,
		Y:      y,
		Pitch:  pitch,
		Volume: volume,
	})
}

func RequestSFX(w *ecs.World, req *component.SFXRequest) {
	if w == nil || req == nil || req.Clip == "" {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.SFXRequestComponent.Kind(), req)
}
