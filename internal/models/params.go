package models

import (
	"fmt"
	"math"

	"github.com/san-kum/tbphase/internal/dynamo"
)

// ParamSpec describes one slider of the parameter input boundary.
type ParamSpec struct {
	Name    string
	Label   string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

var (
	BetaB = ParamSpec{Name: "beta_b", Label: "β_b (immune suppressing TB)", Min: 0.1, Max: 5.0, Step: 0.1, Default: 1.0}
	BetaI = ParamSpec{Name: "beta_i", Label: "β_i (TB suppressing immune)", Min: 0.1, Max: 5.0, Step: 0.1, Default: 1.0}
	EtaB  = ParamSpec{Name: "eta_b", Label: "η_b (TB self-limiting)", Min: 0.5, Max: 2.0, Step: 0.05, Default: 1.5}
	EtaI  = ParamSpec{Name: "eta_i", Label: "η_i (immune self-limiting)", Min: 0.5, Max: 2.0, Step: 0.05, Default: 1.5}

	// Specs lists the sliders in display order.
	Specs = []ParamSpec{BetaB, BetaI, EtaB, EtaI}
)

// Snap clamps v to [Min, Max] and rounds it to the nearest step.
func (s ParamSpec) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}
	n := math.Round((v - s.Min) / s.Step)
	v = s.Min + n*s.Step
	// strip the drift left by n*Step so 1.5 stays 1.5
	v = math.Round(v*1e9) / 1e9
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Nudge moves v by the given number of steps.
func (s ParamSpec) Nudge(v float64, steps int) float64 {
	return s.Snap(v + float64(steps)*s.Step)
}

// Fraction maps v onto [0, 1] across the slider range.
func (s ParamSpec) Fraction(v float64) float64 {
	f := (v - s.Min) / (s.Max - s.Min)
	return math.Max(0, math.Min(1, f))
}

// FromFraction is the inverse of Fraction, snapped to the step grid.
func (s ParamSpec) FromFraction(f float64) float64 {
	return s.Snap(s.Min + f*(s.Max-s.Min))
}

func (s ParamSpec) Contains(v float64) bool {
	const tol = 1e-9
	return v >= s.Min-tol && v <= s.Max+tol
}

// Get returns the value this spec controls.
func (s ParamSpec) Get(p Params) float64 {
	switch s.Name {
	case BetaB.Name:
		return p.BetaB
	case BetaI.Name:
		return p.BetaI
	case EtaB.Name:
		return p.EtaB
	case EtaI.Name:
		return p.EtaI
	}
	return math.NaN()
}

// Set returns a copy of p with the value this spec controls replaced.
func (s ParamSpec) Set(p Params, v float64) Params {
	switch s.Name {
	case BetaB.Name:
		p.BetaB = v
	case BetaI.Name:
		p.BetaI = v
	case EtaB.Name:
		p.EtaB = v
	case EtaI.Name:
		p.EtaI = v
	}
	return p
}

// Validate checks every coefficient against its slider range.
func (p Params) Validate() error {
	for _, s := range Specs {
		v := s.Get(p)
		if !s.Contains(v) {
			return fmt.Errorf("%s=%g outside [%g, %g]: %w", s.Name, v, s.Min, s.Max, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("β_b=%.2f β_i=%.2f η_b=%.2f η_i=%.2f", p.BetaB, p.BetaI, p.EtaB, p.EtaI)
}
