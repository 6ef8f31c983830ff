package entity

import (
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
)

// NewSFXBank creates the entity that owns live sound effect voices. Without
// one the audio system drops every request.
func NewSFXBank(w *ecs.World, maxVoices int, muted bool) (ecs.Entity, error) {
	return BuildEntity(w, "sfx_bank",
		with(component.SFXBankComponent.Kind(), &component.SFXBank{
			MaxVoices: maxVoices,
			Muted:     muted,
		}),
	)
}
