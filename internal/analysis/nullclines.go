package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tbphase/internal/models"
)

const nullclineSamples = 60

// Nullcline is a polyline along which one derivative vanishes.
type Nullcline struct {
	Name   string
	Points []Point
}

// Nullclines returns the non-trivial nullclines clipped to [lo, hi]²:
// ḃ = 0 on i = η_b(1-b) and i̇ = 0 on b = η_i(1-i). The trivial ones lie on
// the axes.
func Nullclines(p models.Params, lo, hi float64) []Nullcline {
	s := floats.Span(make([]float64, nullclineSamples), lo, hi)

	bNull := Nullcline{Name: "db/dt = 0"}
	iNull := Nullcline{Name: "di/dt = 0"}
	for _, v := range s {
		if i := p.EtaB * (1 - v); i >= lo && i <= hi {
			bNull.Points = append(bNull.Points, Point{B: v, I: i})
		}
		if b := p.EtaI * (1 - v); b >= lo && b <= hi {
			iNull.Points = append(iNull.Points, Point{B: b, I: v})
		}
	}
	return []Nullcline{bNull, iNull}
}
