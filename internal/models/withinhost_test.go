package models

import (
	"math"
	"testing"

	"github.com/san-kum/tbphase/internal/dynamo"
)

func TestWithinHostDerivatives(t *testing.T) {
	p := Params{BetaB: 2, BetaI: 3, EtaB: 1.5, EtaI: 0.5}

	db, di := Derivatives(p, 0.4, 0.2)
	wantB := 2 * 0.4 * (1.5*(1-0.4) - 0.2)
	wantI := 3 * 0.2 * (0.5*(1-0.2) - 0.4)

	if math.Abs(db-wantB) > 1e-15 {
		t.Errorf("db: got %f, expected %f", db, wantB)
	}
	if math.Abs(di-wantI) > 1e-15 {
		t.Errorf("di: got %f, expected %f", di, wantI)
	}
}

func TestWithinHostEquilibria(t *testing.T) {
	p := DefaultParams()
	dyn := NewWithinHost(p)

	for _, x := range []dynamo.State{{0, 0}, {1, 0}, {0, 1}, {0.6, 0.6}} {
		dx := dyn.Derive(x, 0)
		if math.Abs(dx[0]) > 1e-10 || math.Abs(dx[1]) > 1e-10 {
			t.Errorf("expected zero derivative at %v, got %v", x, dx)
		}
	}
}

func TestWithinHostAutonomous(t *testing.T) {
	dyn := NewWithinHost(DefaultParams())
	x := dynamo.State{0.3, 0.9}

	a := dyn.Derive(x, 0)
	b := dyn.Derive(x, 123.4)
	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("derivative depends on time: %v vs %v", a, b)
	}
	if dyn.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", dyn.StateDim())
	}
}

func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	p := Params{BetaB: 1.3, BetaI: 0.7, EtaB: 1.85, EtaI: 0.65}
	b, i := 0.42, 0.77
	const h = 1e-6

	j := Jacobian(p, b, i)

	dbB1, diB1 := Derivatives(p, b+h, i)
	dbB0, diB0 := Derivatives(p, b-h, i)
	dbI1, diI1 := Derivatives(p, b, i+h)
	dbI0, diI0 := Derivatives(p, b, i-h)

	fd := [4]float64{
		(dbB1 - dbB0) / (2 * h),
		(dbI1 - dbI0) / (2 * h),
		(diB1 - diB0) / (2 * h),
		(diI1 - diI0) / (2 * h),
	}
	for k := range j {
		if math.Abs(j[k]-fd[k]) > 1e-6 {
			t.Errorf("jacobian[%d]: got %f, finite difference %f", k, j[k], fd[k])
		}
	}
}

func TestSwappedMirrorsDerivatives(t *testing.T) {
	p := Params{BetaB: 4.1, BetaI: 0.2, EtaB: 0.55, EtaI: 1.95}
	db, di := Derivatives(p, 0.25, 0.65)
	sdb, sdi := Derivatives(p.Swapped(), 0.65, 0.25)
	if db != sdi || di != sdb {
		t.Errorf("swapped system is not a mirror: (%v, %v) vs (%v, %v)", db, di, sdi, sdb)
	}
	if p.Symmetric() {
		t.Error("asymmetric parameters reported symmetric")
	}
	if !DefaultParams().Symmetric() {
		t.Error("default parameters should be symmetric")
	}
}
