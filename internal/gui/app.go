package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/models"
)

const (
	screenW = 1280
	screenH = 720
)

// Theme Colors
var (
	ColBg      = rl.NewColor(250, 250, 250, 255)
	ColAxis    = rl.NewColor(40, 40, 40, 255)
	ColText    = rl.NewColor(60, 60, 60, 255)
	ColTextDim = rl.NewColor(150, 150, 150, 255)
	ColSelect  = rl.NewColor(20, 20, 20, 255)
	ColArrow   = rl.NewColor(128, 128, 128, 153)
	ColTrack   = rl.NewColor(220, 220, 220, 255)
	ColKnob    = rl.NewColor(31, 119, 180, 255)
	ColError   = rl.NewColor(214, 39, 40, 255)
)

// line colors per trajectory, reused cyclically
var lineColors = []color.RGBA{
	rl.NewColor(31, 119, 180, 255),
	rl.NewColor(255, 127, 14, 255),
	rl.NewColor(44, 160, 44, 255),
	rl.NewColor(214, 39, 40, 255),
	rl.NewColor(148, 103, 189, 255),
	rl.NewColor(140, 86, 75, 255),
	rl.NewColor(227, 119, 194, 255),
	rl.NewColor(188, 189, 34, 255),
	rl.NewColor(23, 190, 207, 255),
}

type App struct {
	Params     models.Params
	Initial    models.Params
	Opts       analysis.Options
	Portrait   *analysis.Portrait
	Selected   int
	Dragging   int // slider under the mouse, -1 when idle
	Nullclines bool
	Font       rl.Font

	plane   Plane
	sliders []Slider
}

// initWindow opens the 1280x720 window and disables the default exit key.
func initWindow() {
	rl.InitWindow(screenW, screenH, "tbphase")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono with bilinear filtering. raylib falls back
// to its built-in font when the file is missing.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(p models.Params, opts analysis.Options) *App {
	for _, s := range models.Specs {
		p = s.Set(p, s.Snap(s.Get(p)))
	}
	a := &App{
		Params:   p,
		Initial:  p,
		Opts:     opts,
		Dragging: -1,
		plane:    NewPlane(80, 70, 580),
		sliders:  NewSliders(780, 120, 380),
	}
	a.recompute()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(p models.Params, opts analysis.Options) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(p, opts)
	app.Font = loadFont()
	defer rl.UnloadFont(app.Font)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) recompute() {
	a.Portrait = analysis.Compute(a.Params, a.Opts)
}

// set changes one slider's value, recomputing only when it moved.
func (a *App) set(idx int, v float64) {
	s := models.Specs[idx]
	v = s.Snap(v)
	if v == s.Get(a.Params) {
		return
	}
	a.Params = s.Set(a.Params, v)
	a.recompute()
}

// Update handles one frame of input. It returns false when the user quits.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(models.Specs)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected = (a.Selected - 1 + len(models.Specs)) % len(models.Specs)
	}

	steps := 1
	if rl.IsKeyDown(rl.KeyLeftShift) {
		steps = 5
	}
	s := models.Specs[a.Selected]
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.set(a.Selected, s.Nudge(s.Get(a.Params), steps))
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.set(a.Selected, s.Nudge(s.Get(a.Params), -steps))
	}

	if rl.IsKeyPressed(rl.KeyR) && a.Params != a.Initial {
		a.Params = a.Initial
		a.recompute()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.Nullclines = !a.Nullclines
	}

	a.updateMouse()
	return true
}

// updateMouse drags a slider knob while the left button is held.
func (a *App) updateMouse() {
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		for i, sl := range a.sliders {
			if sl.Hit(mouse.X, mouse.Y) {
				a.Dragging, a.Selected = i, i
				break
			}
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		a.Dragging = -1
	}
	if a.Dragging >= 0 && rl.IsMouseButtonDown(rl.MouseLeftButton) {
		sl := a.sliders[a.Dragging]
		a.set(a.Dragging, models.Specs[a.Dragging].FromFraction(sl.FractionAt(mouse.X)))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawPortrait()
	a.drawPanel()

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y float32, size float32, col color.RGBA) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(x, y), size, 1, col)
}

func (a *App) drawPanel() {
	a.drawText("tbphase", 780, 40, 28, ColSelect)
	a.drawText(a.Params.String(), 780, 76, 14, ColTextDim)

	for i, sl := range a.sliders {
		spec := models.Specs[i]
		v := spec.Get(a.Params)
		col := ColText
		if i == a.Selected {
			col = ColSelect
		}
		a.drawText(fmt.Sprintf("%s  %.2f", spec.Label, v), sl.X, sl.Y-24, 16, col)
		rl.DrawRectangleRec(rl.NewRectangle(sl.X, sl.Y, sl.W, sl.H), ColTrack)
		kx := sl.X + float32(spec.Fraction(v))*sl.W
		rl.DrawRectangleRec(rl.NewRectangle(sl.X, sl.Y, kx-sl.X, sl.H), rl.Fade(ColKnob, 0.4))
		rl.DrawCircleV(rl.NewVector2(kx, sl.Y+sl.H/2), sl.H, ColKnob)
	}

	y := float32(440)
	a.drawText("equilibria", 780, y, 18, ColSelect)
	y += 28
	for _, e := range a.Portrait.Equilibria {
		a.drawText(fmt.Sprintf("(%.3f, %.3f)  %s", e.B, e.I, e.Kind), 780, y, 14, ColText)
		y += 20
	}

	if failed := a.Portrait.Failed(); len(failed) > 0 {
		y += 10
		for _, tr := range failed {
			a.drawText(fmt.Sprintf("(%.1f, %.1f): %v", tr.Start.B, tr.Start.I, tr.Err), 780, y, 12, ColError)
			y += 16
		}
	}

	a.drawText("[J/K] SELECT  [H/L] ADJUST  [SHIFT] x5  [N] NULLCLINES  [R] RESET  [Q] QUIT", 600, 690, 14, ColTextDim)
}
