package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tbphase/internal/models"
)

// DegenerateEpsilon is the raw magnitude at or below which a field sample is
// treated as an equilibrium and given the zero direction.
const DegenerateEpsilon = 1e-12

// Point is a location in the (b, i) plane.
type Point struct {
	B, I float64
}

// Grid is an N x N lattice over [Min, Max] x [Min, Max], endpoints included.
type Grid struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	N   int     `yaml:"n"`
}

func DefaultGrid() Grid {
	return Grid{Min: PlotMin, Max: PlotMax, N: 20}
}

// Size is the number of coordinates along each axis.
func (g Grid) Size() int {
	if g.N < 2 {
		return 1
	}
	return g.N
}

// Coords returns the N evenly spaced coordinates shared by both axes.
func (g Grid) Coords() []float64 {
	if g.N < 2 {
		return []float64{g.Min}
	}
	c := floats.Span(make([]float64, g.N), g.Min, g.Max)
	c[len(c)-1] = g.Max
	return c
}

// VectorSample is the flow direction at one grid point.
type VectorSample struct {
	Point
	DB, DI     float64 // unit direction, or zero when Degenerate
	Magnitude  float64 // norm of the raw derivative
	Degenerate bool
}

// VectorField stores samples row-major: row r has I = Coords()[r], column c
// has B = Coords()[c].
type VectorField struct {
	Grid    Grid
	Samples []VectorSample
}

func (f *VectorField) At(row, col int) VectorSample {
	return f.Samples[row*f.Grid.Size()+col]
}

// Degenerate returns the samples that sit on an equilibrium.
func (f *VectorField) Degenerate() []VectorSample {
	var out []VectorSample
	for _, s := range f.Samples {
		if s.Degenerate {
			out = append(out, s)
		}
	}
	return out
}

// FieldAt normalizes the derivative at pt to unit length.
func FieldAt(p models.Params, pt Point) VectorSample {
	db, di := models.Derivatives(p, pt.B, pt.I)
	mag := floats.Norm([]float64{db, di}, 2)

	s := VectorSample{Point: pt, Magnitude: mag}
	if !(mag > DegenerateEpsilon) {
		s.Degenerate = true
		return s
	}
	s.DB = db / mag
	s.DI = di / mag
	return s
}

// EvaluateField samples the normalized vector field over g.
func EvaluateField(p models.Params, g Grid) *VectorField {
	coords := g.Coords()
	field := &VectorField{
		Grid:    g,
		Samples: make([]VectorSample, 0, len(coords)*len(coords)),
	}
	for _, i := range coords {
		for _, b := range coords {
			field.Samples = append(field.Samples, FieldAt(p, Point{B: b, I: i}))
		}
	}
	return field
}
