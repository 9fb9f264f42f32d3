package analysis

import (
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tbphase/internal/models"
)

type Stability string

const (
	StableNode    Stability = "stable node"
	UnstableNode  Stability = "unstable node"
	Saddle        Stability = "saddle"
	StableFocus   Stability = "stable focus"
	UnstableFocus Stability = "unstable focus"
	Center        Stability = "center"
	Degenerate    Stability = "degenerate"
)

const eigenTol = 1e-12

// Equilibrium is a fixed point with its linear stability.
type Equilibrium struct {
	Point
	Kind        Stability
	Eigenvalues []complex128
}

// Equilibria returns the fixed points in the closed first quadrant: the
// origin, TB-only (1, 0), immune-only (0, 1), and the interior coexistence
// point when it exists.
func Equilibria(p models.Params) []Equilibrium {
	pts := []Point{{0, 0}, {1, 0}, {0, 1}}

	if det := 1 - p.EtaB*p.EtaI; math.Abs(det) > eigenTol {
		b := p.EtaI * (1 - p.EtaB) / det
		i := p.EtaB * (1 - p.EtaI) / det
		// on an axis it coincides with one of the boundary points
		if b > eigenTol && i > eigenTol {
			pts = append(pts, Point{B: b, I: i})
		}
	}

	out := make([]Equilibrium, 0, len(pts))
	for _, pt := range pts {
		out = append(out, Classify(p, pt))
	}
	return out
}

// Classify linearizes the model at pt.
func Classify(p models.Params, pt Point) Equilibrium {
	j := models.Jacobian(p, pt.B, pt.I)

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(2, 2, j[:]), mat.EigenNone); !ok {
		return Equilibrium{Point: pt, Kind: Degenerate}
	}
	vals := eig.Values(nil)
	sort.Slice(vals, func(a, b int) bool {
		if real(vals[a]) != real(vals[b]) {
			return real(vals[a]) < real(vals[b])
		}
		return imag(vals[a]) < imag(vals[b])
	})

	return Equilibrium{Point: pt, Kind: stability(vals), Eigenvalues: vals}
}

func stability(vals []complex128) Stability {
	if len(vals) != 2 || cmplx.IsNaN(vals[0]) || cmplx.IsNaN(vals[1]) {
		return Degenerate
	}
	re1, re2 := real(vals[0]), real(vals[1])

	if math.Abs(imag(vals[0])) > eigenTol {
		switch {
		case re1 < -eigenTol:
			return StableFocus
		case re1 > eigenTol:
			return UnstableFocus
		default:
			return Center
		}
	}

	switch {
	case re1 < -eigenTol && re2 < -eigenTol:
		return StableNode
	case re1 > eigenTol && re2 > eigenTol:
		return UnstableNode
	case re1 < -eigenTol && re2 > eigenTol:
		return Saddle
	default:
		return Degenerate
	}
}

// Stable returns the asymptotically stable equilibria.
func (pt *Portrait) Stable() []Equilibrium {
	var out []Equilibrium
	for _, e := range pt.Equilibria {
		if e.Kind == StableNode || e.Kind == StableFocus {
			out = append(out, e)
		}
	}
	return out
}
