package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/footsteps/logging"
	"github.com/milk9111/footsteps/prefabs"
	"go.uber.org/zap"
)

func main() {
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	muted := flag.Bool("mute", false, "run without playing footstep audio")
	watch := flag.Bool("watch", true, "hot-reload footsteps.yaml when it changes on disk")
	prefabDir := flag.String("prefabs", "prefabs", "directory whose yaml files shadow the embedded prefabs")
	logLevel := flag.String("log-level", "info", "log level")
	logFile := flag.String("log-file", "", "also write JSON logs to this rotated file")
	flag.Parse()

	cfg := logging.DefaultConfig()
	cfg.Level = *logLevel
	cfg.LogFile = *logFile
	log := logging.New(cfg)
	defer func() { _ = log.Sync() }()

	prefabs.SetDiskDir(*prefabDir)
	spec, err := prefabs.LoadFootstepSpec(prefabs.FootstepsPrefab)
	if err != nil {
		log.Error("load footstep prefab", zap.Error(err))
		os.Exit(1)
	}
	warnMissingClips(log, spec)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetTPS(tps)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("footsteps")

	game, err := NewGame(spec, *muted, log)
	if err != nil {
		log.Error("build world", zap.Error(err))
		os.Exit(1)
	}
	if *watch && *prefabDir != "" {
		if err := game.WatchPrefabs(prefabs.DiskDir()); err != nil {
			// Running outside the repo has no prefabs dir; the embedded copy is used.
			log.Info("prefab hot reload unavailable", zap.Error(err))
		}
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Error("game exited", zap.Error(err))
		os.Exit(1)
	}
}
