package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/Garsondee/fire-rescue/internal/app"
	"github.com/Garsondee/fire-rescue/internal/audio"
	"github.com/Garsondee/fire-rescue/internal/config"
	"github.com/Garsondee/fire-rescue/internal/logging"
	"github.com/Garsondee/fire-rescue/internal/sim"
	"github.com/Garsondee/fire-rescue/internal/store"
	"github.com/Garsondee/fire-rescue/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, openWindow))
}

// openWindow sizes the desktop window and blocks until the game ends.
func openWindow(w config.WindowConfig, g ebiten.Game) error {
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(sim.TPS)
	return ebiten.RunGame(g)
}

// run wires the game together and returns the process exit status. Every
// resource it opens is closed before it returns.
func run(args []string, stderr io.Writer, play func(config.WindowConfig, ebiten.Game) error) int {
	flags := config.Flags("fire-rescue")
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	dir, _ := flags.GetString("config-dir")
	cfg, err := config.Load(dir, flags)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	log := logging.New(stderr, cfg.Log.Level, cfg.Log.Console)

	st, err := store.Open(cfg.Store.Path, log)
	if err != nil {
		log.Warn().Err(err).Msg("settings store unavailable, preferences will not be saved")
		if st, err = store.Open("", log); err != nil {
			log.Error().Err(err).Msg("open in-memory store")
			return 1
		}
	}
	defer st.Close()

	var sound sim.Sound
	if cfg.Audio.Enabled {
		synth := audio.NewSynth(cfg.Audio.SampleRate, cfg.Audio.Volume, log)
		if err := synth.Init(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable, playing silently")
		} else {
			defer synth.Close()
			sound = synth
		}
	}

	var rec *telemetry.Recorder
	if cfg.Telemetry.Enabled {
		if rec, err = telemetry.NewGlobal(); err != nil {
			log.Warn().Err(err).Msg("telemetry disabled")
			rec = nil
		}
	}

	g := app.New(app.Deps{
		Config:    cfg,
		Log:       log,
		Store:     st,
		Sound:     sound,
		Telemetry: rec,
	})
	if err := play(cfg.Window, g); err != nil {
		log.Error().Err(err).Msg("game exited")
		return 1
	}
	return 0
}
