package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tbphase/internal/dynamo"
	"github.com/san-kum/tbphase/internal/integrators"
	"github.com/san-kum/tbphase/internal/models"
)

// Fixed plot frame shared by every renderer.
const (
	PlotMin = 0.0
	PlotMax = 1.2

	Title  = "Phase Plane with Vector Field and Trajectories"
	XLabel = "b(t) - scaled TB"
	YLabel = "i(t) - scaled immune response"
)

// Horizon is the integration span and the number of evenly spaced samples.
type Horizon struct {
	T0      float64 `yaml:"t0"`
	T1      float64 `yaml:"t1"`
	Samples int     `yaml:"samples"`
}

func DefaultHorizon() Horizon {
	return Horizon{T0: 0, T1: 50, Samples: 500}
}

// Times returns the sample times, with both ends pinned exactly.
func (h Horizon) Times() []float64 {
	if h.Samples < 2 {
		return []float64{h.T0}
	}
	ts := floats.Span(make([]float64, h.Samples), h.T0, h.T1)
	ts[len(ts)-1] = h.T1
	return ts
}

// InitialConditions returns the nine starting points: the diagonal of the
// unit square plus four off-diagonal corners.
func InitialConditions() []Point {
	return []Point{
		{0.1, 0.1}, {0.3, 0.3}, {0.5, 0.5}, {0.7, 0.7}, {0.9, 0.9},
		{0.1, 0.9}, {0.9, 0.1}, {0.2, 0.8}, {0.8, 0.2},
	}
}

// Trajectory is one solution sampled at Times. Points past a solver failure
// are NaN; Err holds the failure.
type Trajectory struct {
	Start  Point
	Times  []float64
	Points []Point
	Err    error
}

// Valid returns the length of the prefix of finite samples.
func (tr *Trajectory) Valid() int {
	for k, pt := range tr.Points {
		if math.IsNaN(pt.B) || math.IsNaN(pt.I) || math.IsInf(pt.B, 0) || math.IsInf(pt.I, 0) {
			return k
		}
	}
	return len(tr.Points)
}

// Complete reports whether the solver reached the end of the horizon.
func (tr *Trajectory) Complete() bool {
	return tr.Err == nil && tr.Valid() == len(tr.Points)
}

// Final returns the last valid sample.
func (tr *Trajectory) Final() (Point, bool) {
	n := tr.Valid()
	if n == 0 {
		return Point{}, false
	}
	return tr.Points[n-1], true
}

// Integrate solves the model from each start, in order. A failed solve
// leaves its own trajectory truncated and does not affect the others.
func Integrate(p models.Params, starts []Point, h Horizon, opts integrators.Options) []Trajectory {
	out := make([]Trajectory, len(starts))
	for k, start := range starts {
		out[k] = integrateOne(p, start, h, opts)
	}
	return out
}

func integrateOne(p models.Params, start Point, h Horizon, opts integrators.Options) Trajectory {
	times := h.Times()
	tr := Trajectory{
		Start:  start,
		Times:  times,
		Points: make([]Point, len(times)),
	}

	dyn := models.NewWithinHost(p)
	sol, err := integrators.Solve(dyn, dynamo.State{start.B, start.I}, h.T0, h.T1, times, opts)
	tr.Err = err
	if sol == nil {
		nan := math.NaN()
		for k := range tr.Points {
			tr.Points[k] = Point{nan, nan}
		}
		return tr
	}
	for k, s := range sol.States {
		tr.Points[k] = Point{B: s[0], I: s[1]}
	}
	return tr
}

// Options configure a computation pass. Zero fields take the defaults.
type Options struct {
	Grid              Grid
	Horizon           Horizon
	InitialConditions []Point
	Solver            integrators.Options
}

func DefaultOptions() Options {
	return Options{
		Grid:              DefaultGrid(),
		Horizon:           DefaultHorizon(),
		InitialConditions: InitialConditions(),
		Solver:            integrators.DefaultOptions(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Grid.N > 0 {
		d.Grid = o.Grid
	}
	if o.Horizon.Samples > 0 {
		d.Horizon = o.Horizon
	}
	if len(o.InitialConditions) > 0 {
		d.InitialConditions = o.InitialConditions
	}
	d.Solver = o.Solver
	return d
}

// Portrait is everything a renderer needs for one parameter set.
type Portrait struct {
	Params       models.Params
	Field        *VectorField
	Trajectories []Trajectory
	Equilibria   []Equilibrium
	Nullclines   []Nullcline
}

// Compute runs one full pass: field, trajectories, equilibria, nullclines.
func Compute(p models.Params, opts Options) *Portrait {
	opts = opts.withDefaults()
	return &Portrait{
		Params:       p,
		Field:        EvaluateField(p, opts.Grid),
		Trajectories: Integrate(p, opts.InitialConditions, opts.Horizon, opts.Solver),
		Equilibria:   Equilibria(p),
		Nullclines:   Nullclines(p, PlotMin, PlotMax),
	}
}

// Failed returns the trajectories that did not reach the end of the horizon.
func (pt *Portrait) Failed() []Trajectory {
	var out []Trajectory
	for _, tr := range pt.Trajectories {
		if !tr.Complete() {
			out = append(out, tr)
		}
	}
	return out
}
