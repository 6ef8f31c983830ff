package system

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/footsteps/assets"
	"github.com/milk9111/footsteps/common"
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
	"go.uber.org/zap"
)

const defaultMaxVoices = 8

// SFXLoader builds a ready-to-play player for clip at the given pitch.
type SFXLoader func(clip string, pitch float64) (*audio.Player, error)

// AudioSystem drains SFX requests into players tracked by the SFX bank. With
// no bank entity the requests are dropped, which is how a world without an
// audio device behaves.
type AudioSystem struct {
	load SFXLoader
	log  *zap.Logger
}

func NewAudioSystem(load SFXLoader, log *zap.Logger) *AudioSystem {
	if load == nil {
		load = assets.LoadSFXPlayer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AudioSystem{load: load, log: log.Named("audio_system")}
}

func (a *AudioSystem) Update(w *ecs.World) {
	if a == nil || w == nil {
		return
	}

	var bank *component.SFXBank
	if ent, ok := ecs.First(w, component.SFXBankComponent.Kind()); ok {
		bank, _ = ecs.Get(w, ent, component.SFXBankComponent.Kind())
	}
	if bank != nil {
		a.prune(bank)
	}

	ecs.ForEach(w, component.SFXRequestComponent.Kind(), func(ent ecs.Entity, req *component.SFXRequest) {
		defer ecs.DestroyEntity(w, ent)
		if bank == nil || bank.Muted || req == nil {
			return
		}
		a.play(bank, req)
	})
}

func (a *AudioSystem) play(bank *component.SFXBank, req *component.SFXRequest) {
	player, err := a.load(req.Clip, req.Pitch)
	if err != nil {
		a.log.Warn("sfx load failed", zap.String("clip", req.Clip), zap.Error(err))
		return
	}

	limit := bank.MaxVoices
	if limit <= 0 {
		limit = defaultMaxVoices
	}
	for len(bank.Active) >= limit {
		oldest := bank.Active[0]
		bank.Active = bank.Active[1:]
		_ = oldest.Close()
	}

	player.SetVolume(clampVolume(req.Volume))
	player.Play()
	bank.Active = append(bank.Active, player)
}

func (a *AudioSystem) prune(bank *component.SFXBank) {
	kept := bank.Active[:0]
	for _, p := range bank.Active {
		if p == nil {
			continue
		}
		if p.IsPlaying() {
			kept = append(kept, p)
			continue
		}
		_ = p.Close()
	}
	for i := len(kept); i < len(bank.Active); i++ {
		bank.Active[i] = nil
	}
	bank.Active = kept
}

func clampVolume(v float64) float64 {
	return common.Clamp(v, 0, 1)
}
