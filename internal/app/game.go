// Package app is the ebiten front end: it owns the scenes, turns mouse
// and touch input into level pointer events and persists the player's
// preferences and finished shifts.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/fire-rescue/internal/config"
	"github.com/Garsondee/fire-rescue/internal/render"
	"github.com/Garsondee/fire-rescue/internal/score"
	"github.com/Garsondee/fire-rescue/internal/sim"
	"github.com/Garsondee/fire-rescue/internal/store"
	"github.com/Garsondee/fire-rescue/internal/telemetry"
	"github.com/Garsondee/fire-rescue/internal/voice"
)

// Scene is the screen currently shown.
type Scene int

const (
	SceneMenu Scene = iota
	SceneLevel
	SceneResults
)

func (s Scene) String() string {
	switch s {
	case SceneMenu:
		return "menu"
	case SceneLevel:
		return "level"
	case SceneResults:
		return "results"
	default:
		return "unknown"
	}
}

// resultsDelay is how long the fanfare plays before the report card.
const resultsDelay = 150

const title = "Fire Rescue"

// Deps are the collaborators built by the entry point.
type Deps struct {
	Config    config.Config
	Log       zerolog.Logger
	Store     *store.Store
	Sound     sim.Sound
	Telemetry *telemetry.Recorder // nil when metrics are off

	// Clipboard receives copied reports; nil uses the system clipboard.
	Clipboard func(string) error
}

// Game implements ebiten.Game.
type Game struct {
	cfg       config.Config
	log       zerolog.Logger
	store     *store.Store
	sound     sim.Sound
	telemetry *telemetry.Recorder
	copyText  func(string) error

	captions *voice.Captions
	tracker  *score.Tracker
	renderer *render.Renderer

	scene Scene
	tick  int

	width, height int

	level      *sim.FireRescueLevel
	demo       bool
	pilot      sim.Autopilot
	startedAt  time.Time
	completeAt int // tick the level finished, 0 while playing

	devMode      bool
	truckStyle   sim.TruckStyle
	hydrantStyle sim.HydrantStyle

	report    score.Report
	sessionID string

	in pointerState
}

// New creates the game on the menu scene, restoring saved preferences.
func New(d Deps) *Game {
	g := &Game{
		cfg:       d.Config,
		log:       d.Log.With().Str("component", "app").Logger(),
		store:     d.Store,
		sound:     d.Sound,
		telemetry: d.Telemetry,
		copyText:  d.Clipboard,
		captions:  voice.NewCaptions(d.Log),
		renderer:  render.New(),
		width:     d.Config.Window.Width,
		height:    d.Config.Window.Height,
	}
	if g.copyText == nil {
		g.copyText = clipboard.WriteAll
	}
	g.tracker = score.NewTracker(d.Sound, g.captions, d.Log)

	p := g.store.Prefs()
	g.devMode = p.DevMode
	g.truckStyle = sim.ParseTruckStyle(p.TruckStyle)
	g.hydrantStyle = sim.ParseHydrantStyle(p.HydrantStyle)
	g.captions.SetEnabled(p.VoiceEnabled)
	g.log.Info().
		Str("truck", g.truckStyle.String()).
		Str("hydrant", g.hydrantStyle.String()).
		Bool("dev", g.devMode).
		Int("sessions", p.TotalSessions).
		Msg("preferences loaded")
	return g
}

// Update advances one tick.
func (g *Game) Update() error {
	g.handleKeys()
	g.handlePointer()
	g.step()
	return nil
}

// step runs the per-tick logic that does not read devices.
func (g *Game) step() {
	g.tick++
	g.captions.Update()
	if g.scene != SceneLevel || g.level == nil {
		return
	}
	if g.demo {
		g.pilot.Step(g.level)
	}
	g.level.Update()

	if g.level.Complete() && g.completeAt == 0 {
		g.completeAt = g.tick
	}
	if g.completeAt > 0 && g.tick-g.completeAt >= resultsDelay {
		if g.demo {
			g.openMenu()
			return
		}
		g.finishLevel()
	}
}

// Draw paints the current scene.
func (g *Game) Draw(screen *ebiten.Image) {
	switch g.scene {
	case SceneMenu:
		p := g.store.Prefs()
		g.renderer.DrawMenu(screen, title, p.BestScore, p.TotalSessions, g.tick)
	case SceneLevel:
		g.renderer.DrawLevel(screen, g.level)
		g.renderer.DrawHUD(screen, g.level)
		if g.devMode {
			g.renderer.DrawDevOverlay(screen, g.level, g.devExtra()...)
		}
	case SceneResults:
		g.renderer.DrawLevel(screen, g.level)
		g.renderer.DrawResults(screen, g.report, g.store.GetInt(store.KeyBestScore))
	}
	if c, ok := g.captions.Current(); ok {
		g.renderer.DrawCaption(screen, c.Text, c.Alpha())
	}
}

// Layout uses the full window and keeps the level sized to it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.width, g.height
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if g.level != nil {
			g.level.Resize(float64(g.width), float64(g.height))
		}
	}
	return g.width, g.height
}

func (g *Game) devExtra() []string {
	extra := []string{
		fmt.Sprintf("tps %.0f  scene %s  demo %v", ebiten.ActualTPS(), g.scene, g.demo),
	}
	if g.telemetry != nil {
		t := g.telemetry.Totals()
		extra = append(extra, fmt.Sprintf("metrics fires %d shots %d/%d levels %d", t.Fires, t.Hits, t.Shots, t.Levels))
	}
	return extra
}

// --- Scene transitions ---

// startLevel begins a new shift. A demo level is flown by the autopilot
// and never scored.
func (g *Game) startLevel(demo bool) {
	if g.level != nil {
		g.level.Stop()
	}
	p := g.store.Prefs()
	lc := g.cfg.Level

	var rec sim.Recorder
	if !demo {
		g.tracker.Begin(lc.InitialFires, p.TotalFires)
		recs := sim.MultiRecorder{g.tracker}
		if g.telemetry != nil {
			recs = append(recs, g.telemetry)
		}
		rec = recs
	}
	ctx := &sim.Context{
		Sound:    g.sound,
		Narrator: g.captions,
		Recorder: rec,
		Log:      g.log,
	}
	opts := []sim.Option{
		sim.WithCanvasSize(float64(g.width), float64(g.height)),
		sim.WithFires(lc.InitialFires, lc.MaxFires),
		sim.WithGraceFrames(lc.GraceFrames),
		sim.WithSpread(lc.Spread),
		sim.WithStyles(g.truckStyle, g.hydrantStyle),
	}
	if lc.Seed != 0 {
		opts = append(opts, sim.WithSeed(lc.Seed))
	}

	g.level = sim.NewFireRescueLevel(ctx, opts...)
	g.level.Start()
	g.demo = demo
	g.pilot = sim.Autopilot{}
	g.completeAt = 0
	g.startedAt = time.Now()
	g.in = pointerState{}
	g.scene = SceneLevel
	g.log.Info().Bool("demo", demo).Msg("level started")
}

// finishLevel scores the shift, saves it and shows the report card.
func (g *Game) finishLevel() {
	g.level.Stop()
	g.report = g.tracker.Report()
	ids := make([]string, 0, len(g.report.Achievements))
	for _, a := range g.report.Achievements {
		ids = append(ids, a.ID)
	}
	id, err := g.store.RecordSession(store.Session{
		StartedAt:         g.startedAt,
		EndedAt:           time.Now(),
		FiresExtinguished: g.report.FiresExtinguished,
		WaterUsed:         g.report.WaterUsed,
		Shots:             g.report.WaterShots,
		Hits:              g.report.SuccessfulShots,
		ResponseMillis:    g.report.ResponseTime.Milliseconds(),
		Score:             g.report.Total,
		Grade:             string(g.report.Grade),
		Achievements:      strings.Join(ids, ","),
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("session not saved")
	}
	g.sessionID = id
	g.scene = SceneResults
	g.log.Info().
		Str("session", id).
		Int("score", g.report.Total).
		Str("grade", string(g.report.Grade)).
		Dur("response", g.report.ResponseTime).
		Msg("level finished")
}

func (g *Game) openMenu() {
	if g.level != nil {
		g.level.Stop()
	}
	g.demo = false
	g.completeAt = 0
	g.scene = SceneMenu
}

// --- Preferences ---

func (g *Game) toggleDevMode() {
	g.devMode = !g.devMode
	g.store.SetBool(store.KeyDevMode, g.devMode)
}

func (g *Game) toggleVoice() {
	on := !g.captions.Enabled()
	g.captions.SetEnabled(on)
	g.store.SetBool(store.KeyVoiceEnabled, on)
}

// cycleTruckStyle changes paint scheme. During a level the truck animates
// the change and refuses while a change is already running.
func (g *Game) cycleTruckStyle() {
	if g.scene == SceneLevel && g.level != nil {
		if !g.level.CycleTruckStyle() {
			return
		}
	}
	g.truckStyle = g.truckStyle.Next()
	g.store.Set(store.KeyTruckStyle, g.truckStyle.String())
}

func (g *Game) cycleHydrantStyle() {
	if g.scene != SceneMenu {
		return
	}
	g.hydrantStyle = g.hydrantStyle.Next()
	g.store.Set(store.KeyHydrantStyle, g.hydrantStyle.String())
}

// copyReport puts the last report card on the clipboard.
func (g *Game) copyReport() {
	if g.scene != SceneResults {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s shift report\n", title)
	if g.sessionID != "" {
		fmt.Fprintf(&sb, "session %s\n", g.sessionID)
	}
	sb.WriteString(g.report.Format())
	if err := g.copyText(sb.String()); err != nil {
		g.log.Warn().Err(err).Msg("copy to clipboard failed")
		return
	}
	g.captions.Say("Report copied!")
}

// ladder mirrors the on-screen call button.
func (g *Game) ladder() {
	if g.scene != SceneLevel || g.level == nil || !g.level.InputEnabled() {
		return
	}
	if !g.level.CallHelperTruck() {
		g.level.ToggleLadder()
	}
}

// spawnFire lights a fire at (x, y) from the developer view.
func (g *Game) spawnFire(x, y float64) {
	if !g.devMode || g.scene != SceneLevel || g.level == nil {
		return
	}
	if g.level.SpawnFireAt(x, y) == nil {
		g.log.Debug().Float64("x", x).Float64("y", y).Msg("manual fire refused")
	}
}
