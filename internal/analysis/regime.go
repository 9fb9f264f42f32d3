package analysis

import (
	"github.com/san-kum/tbphase/internal/models"
)

// Regime names the long-run outcome implied by the stable equilibria.
type Regime string

const (
	Coexistence    Regime = "coexistence"
	TBDominant     Regime = "tb-dominant"
	ImmuneDominant Regime = "immune-dominant"
	Bistable       Regime = "bistable"
	Indeterminate  Regime = "indeterminate"
)

// Symbol is a one-letter code for regime maps.
func (r Regime) Symbol() rune {
	switch r {
	case Coexistence:
		return 'C'
	case TBDominant:
		return 'T'
	case ImmuneDominant:
		return 'I'
	case Bistable:
		return 'B'
	}
	return '?'
}

// ClassifyRegime derives the regime from linear stability alone, without
// integrating any trajectory.
func ClassifyRegime(p models.Params) Regime {
	var tb, immune, interior bool
	for _, e := range Equilibria(p) {
		if e.Kind != StableNode && e.Kind != StableFocus {
			continue
		}
		switch {
		case e.B > 0 && e.I > 0:
			interior = true
		case e.B > 0:
			tb = true
		case e.I > 0:
			immune = true
		}
	}

	switch {
	case interior:
		return Coexistence
	case tb && immune:
		return Bistable
	case tb:
		return TBDominant
	case immune:
		return ImmuneDominant
	}
	return Indeterminate
}
