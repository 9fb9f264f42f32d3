package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/tbphase/internal/analysis"
)

// Quiver draws the normalized field as fixed-length arrows. Directions are
// taken in canvas space, so every arrow has the same on-screen length.
type Quiver struct {
	Field *analysis.VectorField
	draw.LineStyle

	// Scale is the arrow length as a fraction of the grid spacing.
	Scale float64
	// Head is the arrowhead length as a fraction of the arrow.
	Head float64
}

func NewQuiver(field *analysis.VectorField) *Quiver {
	return &Quiver{
		Field: field,
		LineStyle: draw.LineStyle{
			Color: color.RGBA{R: 128, G: 128, B: 128, A: 153},
			Width: vg.Points(0.8),
		},
		Scale: 0.8,
		Head:  0.3,
	}
}

// Plot implements plot.Plotter. Degenerate samples are skipped.
func (q *Quiver) Plot(c draw.Canvas, plt *plot.Plot) {
	coords := q.Field.Grid.Coords()
	if len(coords) < 2 {
		return
	}
	trX, trY := plt.Transforms(&c)

	cell := math.Min(
		float64(trX(coords[1])-trX(coords[0])),
		float64(trY(coords[1])-trY(coords[0])),
	)
	length := vg.Length(math.Abs(cell) * q.Scale)
	head := length * vg.Length(q.Head)

	for _, s := range q.Field.Samples {
		if s.Degenerate {
			continue
		}
		// center the arrow on its grid point
		tail := vg.Point{X: trX(s.B), Y: trY(s.I)}
		dir := vg.Point{X: vg.Length(s.DB), Y: vg.Length(s.DI)}
		tail = tail.Sub(dir.Scale(length / 2))
		tip := tail.Add(dir.Scale(length))

		c.StrokeLine2(q.LineStyle, tail.X, tail.Y, tip.X, tip.Y)
		for _, side := range []float64{-1, 1} {
			barb := rotate(dir, math.Pi-side*math.Pi/7).Scale(head)
			c.StrokeLine2(q.LineStyle, tip.X, tip.Y, tip.X+barb.X, tip.Y+barb.Y)
		}
	}
}

func rotate(v vg.Point, angle float64) vg.Point {
	sin, cos := math.Sincos(angle)
	x, y := float64(v.X), float64(v.Y)
	return vg.Point{X: vg.Length(x*cos - y*sin), Y: vg.Length(x*sin + y*cos)}
}
