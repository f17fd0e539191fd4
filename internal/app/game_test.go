package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Garsondee/fire-rescue/internal/config"
	"github.com/Garsondee/fire-rescue/internal/sim"
	"github.com/Garsondee/fire-rescue/internal/store"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) write(s string) error {
	if c.err != nil {
		return c.err
	}
	c.text = s
	return nil
}

func newTestGame(t *testing.T) (*Game, *store.Store, *fakeClipboard) {
	t.Helper()
	cfg, err := config.Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Level.Seed = 42
	cfg.Level.GraceFrames = 0
	cfg.Level.InitialFires = 3
	cfg.Level.MaxFires = 3

	st, err := store.Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	clip := &fakeClipboard{}
	g := New(Deps{Config: cfg, Log: zerolog.Nop(), Store: st, Clipboard: clip.write})
	return g, st, clip
}

// playToResults flies the current level with an autopilot through the
// same path real input takes.
func playToResults(t *testing.T, g *Game) {
	t.Helper()
	var ap sim.Autopilot
	for i := 0; i < 90*sim.TPS; i++ {
		if g.scene != SceneLevel {
			return
		}
		ap.Step(g.level)
		g.step()
	}
	t.Fatalf("level not finished, stage %s, %d fires left", g.level.Stage(), len(g.level.Fires()))
}

func TestNew_RestoresPreferences(t *testing.T) {
	cfg, _ := config.Load(t.TempDir(), nil)
	st, err := store.Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer st.Close()
	st.SetBool(store.KeyDevMode, true)
	st.Set(store.KeyTruckStyle, "vintage")
	st.Set(store.KeyHydrantStyle, "yellow")
	st.SetBool(store.KeyVoiceEnabled, false)

	g := New(Deps{Config: cfg, Log: zerolog.Nop(), Store: st})
	if !g.devMode || g.truckStyle != sim.TruckVintage || g.hydrantStyle != sim.HydrantYellow {
		t.Fatalf("preferences not restored: dev=%v truck=%s hydrant=%s", g.devMode, g.truckStyle, g.hydrantStyle)
	}
	if g.captions.Enabled() {
		t.Fatal("voice preference not restored")
	}
	if g.scene != SceneMenu {
		t.Fatalf("expected menu scene, got %s", g.scene)
	}
}

func TestPressOnMenu_StartsLevel(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.press(100, 100)
	if g.scene != SceneLevel || g.level == nil || !g.level.Running() {
		t.Fatalf("expected a running level, scene %s", g.scene)
	}
	if g.level.Truck().Style != g.truckStyle {
		t.Fatal("level should use the saved truck style")
	}
}

func TestFullShift_SavesSession(t *testing.T) {
	g, st, clip := newTestGame(t)
	g.startLevel(false)
	playToResults(t, g)

	if g.scene != SceneResults {
		t.Fatalf("expected results scene, got %s", g.scene)
	}
	if g.report.FiresExtinguished != 3 || !g.report.Completed {
		t.Fatalf("unexpected report %+v", g.report.Stats)
	}
	if g.sessionID == "" {
		t.Fatal("session id missing")
	}
	p := st.Prefs()
	if p.TotalSessions != 1 || p.TotalFires != 3 || p.BestScore != g.report.Total {
		t.Fatalf("totals not saved: %+v", p)
	}
	recent, err := st.RecentSessions(1)
	if err != nil || len(recent) != 1 || recent[0].ID != g.sessionID {
		t.Fatalf("session row missing: %v %v", recent, err)
	}
	if !strings.Contains(recent[0].Achievements, "first_alarm") {
		t.Fatalf("achievements not saved: %q", recent[0].Achievements)
	}

	g.copyReport()
	if !strings.Contains(clip.text, g.sessionID) || !strings.Contains(clip.text, "Grade") {
		t.Fatalf("clipboard got %q", clip.text)
	}
}

func TestDemo_ReturnsToMenuWithoutSaving(t *testing.T) {
	g, st, _ := newTestGame(t)
	g.startLevel(true)
	for i := 0; i < 90*sim.TPS && g.scene == SceneLevel; i++ {
		g.step()
	}
	if g.scene != SceneMenu {
		t.Fatalf("demo should end on the menu, got %s", g.scene)
	}
	if st.Prefs().TotalSessions != 0 {
		t.Fatal("demo shifts must not be saved")
	}
	if g.tracker.Stats().FiresExtinguished != 0 {
		t.Fatal("demo shifts must not be scored")
	}
}

func TestDemo_TapReturnsToMenu(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.startLevel(true)
	g.press(10, 10)
	if g.scene != SceneMenu || g.level.Running() {
		t.Fatal("tapping a demo should stop it")
	}
}

func TestToggleDevMode_Persists(t *testing.T) {
	g, st, _ := newTestGame(t)
	g.toggleDevMode()
	if !st.GetBool(store.KeyDevMode) {
		t.Fatal("dev mode not saved")
	}
	g.toggleDevMode()
	if st.GetBool(store.KeyDevMode) {
		t.Fatal("dev mode not cleared")
	}
}

func TestCycleTruckStyle(t *testing.T) {
	g, st, _ := newTestGame(t)
	g.cycleTruckStyle()
	if st.Get(store.KeyTruckStyle) != sim.TruckModern.String() {
		t.Fatalf("menu change not saved, got %q", st.Get(store.KeyTruckStyle))
	}

	g.startLevel(false)
	for i := 0; i < 60; i++ {
		g.step()
	}
	g.cycleTruckStyle()
	g.cycleTruckStyle() // refused while animating
	if g.truckStyle != sim.TruckVintage || st.Get(store.KeyTruckStyle) != "vintage" {
		t.Fatalf("expected vintage, got %s", g.truckStyle)
	}
	for i := 0; i < 60; i++ {
		g.step()
	}
	if g.level.Truck().Style != sim.TruckVintage {
		t.Fatalf("level truck is %s", g.level.Truck().Style)
	}
}

func TestCycleHydrantStyle_MenuOnly(t *testing.T) {
	g, st, _ := newTestGame(t)
	g.cycleHydrantStyle()
	if st.Get(store.KeyHydrantStyle) != "yellow" {
		t.Fatal("hydrant style not saved")
	}
	g.startLevel(false)
	g.cycleHydrantStyle()
	if g.hydrantStyle != sim.HydrantYellow {
		t.Fatal("hydrant style should not change mid level")
	}
}

func TestToggleVoice(t *testing.T) {
	g, st, _ := newTestGame(t)
	g.toggleVoice()
	if g.captions.Enabled() || st.GetBool(store.KeyVoiceEnabled) {
		t.Fatal("voice should be off and saved")
	}
}

func TestCopyReport_OnlyOnResults(t *testing.T) {
	g, _, clip := newTestGame(t)
	g.copyReport()
	if clip.text != "" {
		t.Fatal("nothing to copy on the menu")
	}

	clip.err = errors.New("no clipboard")
	g.scene = SceneResults
	g.copyReport() // logged, not fatal
	if clip.text != "" {
		t.Fatal("failed copy should not record text")
	}
}

func TestLayout_ResizesLevel(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.startLevel(false)
	w, h := g.Layout(800, 600)
	if w != 800 || h != 600 {
		t.Fatalf("layout returned %dx%d", w, h)
	}
	if g.level.Width() != 800 || g.level.Height() != 600 {
		t.Fatalf("level not resized: %.0fx%.0f", g.level.Width(), g.level.Height())
	}
	if w, h := g.Layout(0, 0); w != 800 || h != 600 {
		t.Fatal("degenerate sizes should keep the last layout")
	}
}

func TestLadderKey_CallsThenRaises(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.startLevel(false)
	for i := 0; i < 60; i++ {
		g.step()
	}
	g.ladder()
	if g.level.Helper().Phase != sim.HelperArriving {
		t.Fatalf("expected helper arriving, got %s", g.level.Helper().Phase)
	}
}

func TestSpawnFire_DevOnly(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.startLevel(false)
	b := g.level.Buildings()[0]
	x, y := b.Center()

	g.spawnFire(x, y)
	if g.level.FiresSpawned() != 0 {
		t.Fatal("fires should only be placed in dev mode")
	}
	g.devMode = true
	g.spawnFire(x, y)
	if g.level.FiresSpawned() != 1 {
		t.Fatal("dev mode should place a fire")
	}
}
