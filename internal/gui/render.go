package gui

import (
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/tbphase/internal/analysis"
)

// Plane maps the phase plane onto a square screen area, i upward.
type Plane struct {
	X, Y, Size float32
}

func NewPlane(x, y, size float32) Plane {
	return Plane{X: x, Y: y, Size: size}
}

func (p Plane) ToScreen(pt analysis.Point) rl.Vector2 {
	span := analysis.PlotMax - analysis.PlotMin
	fx := (pt.B - analysis.PlotMin) / span
	fy := (pt.I - analysis.PlotMin) / span
	return rl.NewVector2(p.X+float32(fx)*p.Size, p.Y+p.Size-float32(fy)*p.Size)
}

// Slider is a horizontal track on screen.
type Slider struct {
	X, Y, W, H float32
}

func NewSliders(x, y, w float32) []Slider {
	out := make([]Slider, 4)
	for i := range out {
		out[i] = Slider{X: x, Y: y + float32(i)*70, W: w, H: 8}
	}
	return out
}

// Hit reports whether (mx, my) is on the track, with some vertical slack.
func (s Slider) Hit(mx, my float32) bool {
	return mx >= s.X-8 && mx <= s.X+s.W+8 && my >= s.Y-10 && my <= s.Y+s.H+10
}

// FractionAt maps a mouse x onto [0, 1] along the track.
func (s Slider) FractionAt(mx float32) float64 {
	f := float64((mx - s.X) / s.W)
	return math.Max(0, math.Min(1, f))
}

func (a *App) drawPortrait() {
	pl := a.plane
	pt := a.Portrait

	a.drawText(analysis.Title, pl.X, pl.Y-44, 20, ColSelect)
	rl.DrawRectangleLines(int32(pl.X), int32(pl.Y), int32(pl.Size), int32(pl.Size), ColAxis)

	for v := analysis.PlotMin; v <= analysis.PlotMax+1e-9; v += 0.2 {
		label := fmt.Sprintf("%.1f", v)
		bx := pl.ToScreen(analysis.Point{B: v, I: analysis.PlotMin})
		rl.DrawLineV(bx, rl.NewVector2(bx.X, bx.Y+6), ColAxis)
		a.drawText(label, bx.X-10, bx.Y+10, 14, ColText)
		iy := pl.ToScreen(analysis.Point{B: analysis.PlotMin, I: v})
		rl.DrawLineV(rl.NewVector2(iy.X-6, iy.Y), iy, ColAxis)
		a.drawText(label, iy.X-36, iy.Y-7, 14, ColText)
	}
	a.drawText(analysis.XLabel, pl.X+pl.Size/2-90, pl.Y+pl.Size+34, 16, ColText)
	rl.DrawTextPro(a.Font, analysis.YLabel, rl.NewVector2(pl.X-60, pl.Y+pl.Size/2+140), rl.NewVector2(0, 0), -90, 16, 1, ColText)

	a.drawArrows(pt.Field)

	if a.Nullclines {
		for _, nc := range pt.Nullclines {
			a.drawPath(nc.Points, ColTextDim)
		}
	}

	for k, tr := range pt.Trajectories {
		a.drawPath(tr.Points[:tr.Valid()], lineColors[k%len(lineColors)])
	}

	for _, e := range pt.Equilibria {
		if e.B < analysis.PlotMin || e.B > analysis.PlotMax || e.I < analysis.PlotMin || e.I > analysis.PlotMax {
			continue
		}
		c := pl.ToScreen(e.Point)
		if e.Kind == analysis.StableNode || e.Kind == analysis.StableFocus {
			rl.DrawCircleV(c, 6, ColSelect)
		} else {
			rl.DrawCircleLines(int32(c.X), int32(c.Y), 6, ColSelect)
		}
	}
}

// drawArrows draws one fixed-length arrow per non-degenerate sample.
func (a *App) drawArrows(f *analysis.VectorField) {
	coords := f.Grid.Coords()
	if len(coords) < 2 {
		return
	}
	cell := a.plane.ToScreen(analysis.Point{B: coords[1]}).X - a.plane.ToScreen(analysis.Point{B: coords[0]}).X
	length := cell * 0.8
	head := length * 0.3

	for _, s := range f.Samples {
		if s.Degenerate {
			continue
		}
		c := a.plane.ToScreen(s.Point)
		// screen y grows downward
		dx, dy := float32(s.DB), float32(-s.DI)
		tail := rl.NewVector2(c.X-dx*length/2, c.Y-dy*length/2)
		tip := rl.NewVector2(c.X+dx*length/2, c.Y+dy*length/2)
		rl.DrawLineV(tail, tip, ColArrow)

		for _, side := range []float64{-1, 1} {
			sin, cos := math.Sincos(math.Pi - side*math.Pi/7)
			bx := dx*float32(cos) - dy*float32(sin)
			by := dx*float32(sin) + dy*float32(cos)
			rl.DrawLineV(tip, rl.NewVector2(tip.X+bx*head, tip.Y+by*head), ColArrow)
		}
	}
}

func (a *App) drawPath(pts []analysis.Point, col color.RGBA) {
	if len(pts) < 2 {
		return
	}
	line := make([]rl.Vector2, len(pts))
	for k, p := range pts {
		line[k] = a.plane.ToScreen(p)
	}
	for k := 1; k < len(line); k++ {
		rl.DrawLineEx(line[k-1], line[k], 2, col)
	}
}
