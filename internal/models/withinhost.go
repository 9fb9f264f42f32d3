package models

import (
	"github.com/san-kum/tbphase/internal/dynamo"
)

// Params are the four coefficients of the within-host model.
// b is the scaled TB burden, i the scaled immune response.
type Params struct {
	BetaB float64 `yaml:"beta_b"` // immune suppressing TB
	BetaI float64 `yaml:"beta_i"` // TB suppressing immune
	EtaB  float64 `yaml:"eta_b"`  // TB self-limiting
	EtaI  float64 `yaml:"eta_i"`  // immune self-limiting
}

func DefaultParams() Params {
	return Params{
		BetaB: BetaB.Default,
		BetaI: BetaI.Default,
		EtaB:  EtaB.Default,
		EtaI:  EtaI.Default,
	}
}

// Symmetric reports whether the model is invariant under swapping b and i.
func (p Params) Symmetric() bool {
	return p.BetaB == p.BetaI && p.EtaB == p.EtaI
}

// Swapped returns the parameters of the mirrored system.
func (p Params) Swapped() Params {
	return Params{BetaB: p.BetaI, BetaI: p.BetaB, EtaB: p.EtaI, EtaI: p.EtaB}
}

// Derivatives evaluates the right-hand side:
//
//	db/dt = βb·b·(ηb·(1-b) - i)
//	di/dt = βi·i·(ηi·(1-i) - b)
func Derivatives(p Params, b, i float64) (db, di float64) {
	db = p.BetaB * b * (p.EtaB*(1-b) - i)
	di = p.BetaI * i * (p.EtaI*(1-i) - b)
	return db, di
}

// Jacobian returns the partial derivatives of the right-hand side at (b, i),
// row-major: [∂ḃ/∂b, ∂ḃ/∂i, ∂i̇/∂b, ∂i̇/∂i].
func Jacobian(p Params, b, i float64) [4]float64 {
	return [4]float64{
		p.BetaB * (p.EtaB*(1-2*b) - i),
		-p.BetaB * b,
		-p.BetaI * i,
		p.BetaI * (p.EtaI*(1-2*i) - b),
	}
}

// WithinHost adapts the model to dynamo.System. State: [b, i].
type WithinHost struct {
	p Params
}

func NewWithinHost(p Params) *WithinHost {
	return &WithinHost{p: p}
}

func (w *WithinHost) StateDim() int { return 2 }

// Derive ignores t; the system is autonomous.
func (w *WithinHost) Derive(x dynamo.State, _ float64) dynamo.State {
	db, di := Derivatives(w.p, x[0], x[1])
	return dynamo.State{db, di}
}
