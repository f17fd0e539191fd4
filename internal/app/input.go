package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pointerState tracks the one pointer that currently drives the level.
// Mouse and the first touch are treated alike; extra fingers are ignored.
type pointerState struct {
	down     bool
	touch    bool
	touchID  ebiten.TouchID
	lastX    float64
	lastY    float64
	touchIDs []ebiten.TouchID
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.toggleDevMode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.cycleTruckStyle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.cycleHydrantStyle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.toggleVoice()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.ladder()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		x, y := ebiten.CursorPosition()
		g.spawnFire(float64(x), float64(y))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) && g.scene == SceneMenu {
		g.startLevel(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.scene == SceneResults {
		g.startLevel(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.openMenu()
	}
}

func (g *Game) handlePointer() {
	in := &g.in

	if !in.down {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			in.down, in.touch = true, false
			g.press(float64(x), float64(y))
			return
		}
		in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
		if len(in.touchIDs) > 0 {
			id := in.touchIDs[0]
			x, y := ebiten.TouchPosition(id)
			in.down, in.touch, in.touchID = true, true, id
			g.press(float64(x), float64(y))
		}
		return
	}

	if in.touch {
		if inpututil.IsTouchJustReleased(in.touchID) {
			x, y := inpututil.TouchPositionInPreviousTick(in.touchID)
			in.down = false
			g.lift(float64(x), float64(y))
			return
		}
		x, y := ebiten.TouchPosition(in.touchID)
		g.drag(float64(x), float64(y))
		return
	}

	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		in.down = false
		g.lift(float64(x), float64(y))
		return
	}
	g.drag(float64(x), float64(y))
}

// press routes a pointer-down to the current scene.
func (g *Game) press(x, y float64) {
	g.in.lastX, g.in.lastY = x, y
	switch g.scene {
	case SceneMenu:
		g.startLevel(false)
	case SceneLevel:
		if g.demo {
			g.openMenu()
			return
		}
		g.level.PointerDown(x, y)
	case SceneResults:
		if g.tick-g.completeAt > resultsDelay+30 {
			g.startLevel(false)
		}
	}
}

func (g *Game) drag(x, y float64) {
	if x == g.in.lastX && y == g.in.lastY {
		return
	}
	g.in.lastX, g.in.lastY = x, y
	if g.scene == SceneLevel && !g.demo {
		g.level.PointerMove(x, y)
	}
}

func (g *Game) lift(x, y float64) {
	if g.scene == SceneLevel && !g.demo {
		g.level.PointerUp(x, y)
	}
}
