package viz

import (
	"math"

	"github.com/san-kum/tbphase/internal/analysis"
)

// Canvas inks. Trajectory k draws with inkLines + k mod the theme's line count.
const (
	InkField = iota
	InkNullcline
	InkStable
	InkUnstable
	inkLines
)

// arrows by octant, counterclockwise from east
var arrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// ArrowGlyph picks the arrow closest to the direction (db, di), with i up.
func ArrowGlyph(db, di float64) rune {
	angle := math.Atan2(di, db)
	oct := int(math.Round(angle/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return arrows[oct]
}

// Frame maps the phase plane onto a canvas's sub-pixel grid.
type Frame struct {
	Min, Max float64
	W, H     int // sub-pixels
}

func NewFrame(c *Canvas) Frame {
	return Frame{Min: analysis.PlotMin, Max: analysis.PlotMax, W: c.Width * 2, H: c.Height * 4}
}

// Project returns the sub-pixel for pt, with i increasing upward.
func (f Frame) Project(pt analysis.Point) (x, y int, ok bool) {
	if math.IsNaN(pt.B) || math.IsNaN(pt.I) {
		return 0, 0, false
	}
	span := f.Max - f.Min
	fx := (pt.B - f.Min) / span
	fy := (pt.I - f.Min) / span
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	x = int(math.Round(fx * float64(f.W-1)))
	y = int(math.Round((1 - fy) * float64(f.H-1)))
	return x, y, true
}

// DrawPortrait renders field arrows under the trajectories, with equilibria
// on top. lines is the number of trajectory inks available.
func DrawPortrait(c *Canvas, pt *analysis.Portrait, lines int, nullclines bool) {
	c.Clear()
	f := NewFrame(c)

	for _, s := range pt.Field.Samples {
		x, y, ok := f.Project(s.Point)
		if !ok {
			continue
		}
		glyph := '·'
		if !s.Degenerate {
			glyph = ArrowGlyph(s.DB, s.DI)
		}
		c.Underlay(x/2, y/4, glyph, InkField)
	}

	if nullclines {
		for _, nc := range pt.Nullclines {
			for _, p := range nc.Points {
				if x, y, ok := f.Project(p); ok {
					c.SetInk(x, y, InkNullcline)
				}
			}
		}
	}

	if lines < 1 {
		lines = 1
	}
	for k, tr := range pt.Trajectories {
		ink := inkLines + k%lines
		drawPath(c, f, tr.Points[:tr.Valid()], ink)
	}

	for _, e := range pt.Equilibria {
		x, y, ok := f.Project(e.Point)
		if !ok {
			continue
		}
		if e.Kind == analysis.StableNode || e.Kind == analysis.StableFocus {
			c.Overlay(x/2, y/4, '●', InkStable)
		} else {
			c.Overlay(x/2, y/4, '○', InkUnstable)
		}
	}
}

// drawPath joins consecutive in-frame points; a point outside the frame
// breaks the line.
func drawPath(c *Canvas, f Frame, pts []analysis.Point, ink int) {
	px, py, have := 0, 0, false
	for _, p := range pts {
		x, y, ok := f.Project(p)
		if !ok {
			have = false
			continue
		}
		if have {
			c.DrawLine(px, py, x, y, ink)
		} else {
			c.SetInk(x, y, ink)
		}
		px, py, have = x, y, true
	}
}
