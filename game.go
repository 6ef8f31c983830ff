package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/footsteps/assets"
	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
	"github.com/milk9111/footsteps/ecs/entity"
	"github.com/milk9111/footsteps/ecs/system"
	"github.com/milk9111/footsteps/footstep"
	"github.com/milk9111/footsteps/prefabs"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	floorY     = 600.0

	tps       = 60
	maxVoices = 8
)

type Game struct {
	frames int

	world   *ecs.World
	player  ecs.Entity
	watcher *prefabs.Watcher
	log     *zap.Logger
	muted   bool
}

// NewGame builds the world: one player with footsteps over a flat floor.
func NewGame(spec prefabs.FootstepSpec, muted bool, log *zap.Logger) (*Game, error) {
	step := time.Second / tps
	world := ecs.NewWorld()

	footSys := system.NewFootstepSystem(step, log)
	world.AddSystem(system.NewInputSystem())
	world.AddSystem(system.NewPlayerControllerSystem())
	world.AddSystem(system.NewPhysicsSystem(step, baseWidth, floorY))
	world.AddSystem(footSys)
	world.AddSystem(system.NewAudioSystem(nil, log))
	world.AddSystem(system.NewRenderSystem(floorY))

	g := &Game{
		world: world,
		log:   log,
		muted: muted,
	}

	player, err := entity.NewPlayerAt(world, baseWidth/2, floorY-entity.PlayerHeight/2, spec,
		footstep.WithClock(footSys.Clock()), footstep.WithLogger(log))
	if err != nil {
		return nil, err
	}
	g.player = player

	if _, err := entity.NewSFXBank(world, maxVoices, muted); err != nil {
		return nil, err
	}
	return g, nil
}

// WatchPrefabs hot-reloads the footstep prefab when it changes on disk.
func (g *Game) WatchPrefabs(dir string) error {
	w, err := prefabs.NewWatcher(dir)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.reloadPrefabs()
	g.world.Update()
	return nil
}

func (g *Game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if change.Name != prefabs.FootstepsPrefab {
				continue
			}
			spec, err := prefabs.LoadFootstepSpec(change.Name)
			if err != nil {
				g.log.Warn("prefab reload failed", zap.String("path", change.Path), zap.Error(err))
				continue
			}
			warnMissingClips(g.log, spec)
			if fs, ok := ecs.Get(g.world, g.player, component.FootstepsComponent.Kind()); ok {
				spec.Apply(fs.Trigger)
				if spec.PixelsPerMeter > 0 {
					fs.PixelsPerMeter = spec.PixelsPerMeter
				}
			}
			g.log.Info("footstep prefab reloaded", zap.String("path", change.Path),
				zap.Int("walk_clips", len(spec.Walk.Clips)),
				zap.Int("run_clips", len(spec.Run.Clips)))
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watcher error", zap.Error(err))
		default:
			return
		}
	}
}

// warnMissingClips flags prefab clip names with no embedded asset. They are
// kept in the sets; the audio system logs each failed load.
func warnMissingClips(log *zap.Logger, spec prefabs.FootstepSpec) {
	if missing := spec.MissingClips(assets.Exists); len(missing) > 0 {
		log.Warn("footstep prefab names unknown clips", zap.Strings("clips", missing))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    muted: %v", g.frames, ebiten.ActualFPS(), g.muted))
	g.world.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
