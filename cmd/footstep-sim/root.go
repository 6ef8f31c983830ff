package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/milk9111/footsteps/assets"
	"github.com/milk9111/footsteps/footstep"
	"github.com/milk9111/footsteps/logging"
	"github.com/milk9111/footsteps/prefabs"
	"github.com/milk9111/footsteps/sfx/beepsfx"
	"github.com/milk9111/footsteps/sim"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "FOOTSTEPS"

type options struct {
	Config   string
	Profile  string
	TPS      int
	Seed     uint64
	Audio    bool
	Output   string
	LogLevel string
	LogFile  string
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "footstep-sim",
		Short: "Replay a speed profile through the footstep trigger",
		Long: `footstep-sim drives a footstep trigger on a fixed-step clock and prints
every step it fires. Flags may also be set through FOOTSTEPS_* environment
variables, e.g. FOOTSTEPS_PROFILE=2:5s,4:3s.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options{
				Config:   v.GetString("config"),
				Profile:  v.GetString("profile"),
				TPS:      v.GetInt("tps"),
				Seed:     v.GetUint64("seed"),
				Audio:    v.GetBool("audio"),
				Output:   v.GetString("output"),
				LogLevel: v.GetString("log-level"),
				LogFile:  v.GetString("log-file"),
			}
			return run(cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "footstep prefab yaml (default: embedded footsteps.yaml)")
	flags.StringP("profile", "p", "2.0:5s,4.0:3s,0:1s", "speed profile as speed:duration pairs")
	flags.Int("tps", 50, "fixed simulation steps per second")
	flags.Uint64("seed", 0, "random seed for clip and jitter selection (0 = random)")
	flags.Bool("audio", false, "play steps through the default audio device")
	flags.StringP("output", "o", "text", "output format: text or json")
	flags.String("log-level", "warn", "log level")
	flags.String("log-file", "", "also write JSON logs to this rotated file")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func run(out io.Writer, opts options) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = opts.LogLevel
	logCfg.LogFile = opts.LogFile
	log := logging.New(logCfg)
	defer func() { _ = log.Sync() }()

	if opts.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", opts.TPS)
	}
	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q", opts.Output)
	}

	profile, err := sim.ParseProfile(opts.Profile)
	if err != nil {
		return err
	}

	spec, err := loadSpec(opts.Config)
	if err != nil {
		return err
	}
	if missing := spec.MissingClips(assets.Exists); len(missing) > 0 {
		log.Warn("footstep prefab names unknown clips", zap.Strings("clips", missing))
	}

	clock := footstep.NewStepClock()
	trigOpts := []footstep.Option{
		footstep.WithClock(clock),
		footstep.WithLogger(log),
	}
	if opts.Seed != 0 {
		trigOpts = append(trigOpts, footstep.WithRand(rand.New(rand.NewPCG(opts.Seed, opts.Seed))))
	}

	var (
		player  *beepsfx.Player
		runOpts []sim.RunOption
	)
	if opts.Audio {
		player = beepsfx.New(beepsfx.DefaultSampleRate, assets.LoadFile, log)
		if err := player.Start(); err != nil {
			// Missing audio is tolerated; steps are still printed.
			log.Warn("audio unavailable", zap.Error(err))
			player = nil
		} else {
			defer player.Close()
			trigOpts = append(trigOpts, footstep.WithPlayer(player))
			runOpts = append(runOpts, sim.WithPacer(sim.RealTime()))
		}
	}

	trig := spec.NewTrigger(trigOpts...)
	if !trig.Enabled() {
		log.Warn("footsteps disabled by configuration")
	}

	step := time.Second / time.Duration(opts.TPS)
	events, err := sim.Run(trig, clock, profile, step, runOpts...)
	if err != nil {
		return err
	}

	if err := write(out, opts.Output, events); err != nil {
		return err
	}

	if player != nil {
		// Let the last voice finish before the speaker closes.
		time.Sleep(300 * time.Millisecond)
	}
	return nil
}

func loadSpec(path string) (prefabs.FootstepSpec, error) {
	if path == "" {
		return prefabs.LoadFootstepSpec(prefabs.FootstepsPrefab)
	}
	return prefabs.LoadFootstepSpecFile(path)
}

type jsonStep struct {
	At     string  `json:"at"`
	Tick   int     `json:"tick"`
	Mode   string  `json:"mode"`
	Clip   string  `json:"clip"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

func write(out io.Writer, format string, events []sim.Event) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		for _, e := range events {
			if err := enc.Encode(jsonStep{
				At:     e.At.String(),
				Tick:   e.Tick,
				Mode:   e.Step.Mode.String(),
				Clip:   string(e.Step.Clip),
				Pitch:  e.Step.Pitch,
				Volume: e.Step.Volume,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	for _, e := range events {
		if _, err := fmt.Fprintf(out, "%8s  tick %5d  %-4s  %-18s  pitch %.3f  volume %.3f\n",
			e.At, e.Tick, e.Step.Mode, e.Step.Clip, e.Step.Pitch, e.Step.Volume); err != nil {
			return err
		}
	}
	walk, run := sim.Summary(events)
	_, err := fmt.Fprintf(out, "walk steps: %d  run steps: %d\n", walk, run)
	return err
}
