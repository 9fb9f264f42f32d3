package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/tbphase/internal/dynamo"
)

const (
	DefaultRtol     = 1e-3
	DefaultAtol     = 1e-6
	DefaultMaxSteps = 100000
)

// Options control the adaptive driver. Zero fields take the defaults.
type Options struct {
	Rtol      float64 `yaml:"rtol"`
	Atol      float64 `yaml:"atol"`
	FirstStep float64 `yaml:"first_step"`
	MaxStep   float64 `yaml:"max_step"`
	MaxSteps  int     `yaml:"max_steps"`
}

func DefaultOptions() Options {
	return Options{
		Rtol:     DefaultRtol,
		Atol:     DefaultAtol,
		MaxStep:  math.Inf(1),
		MaxSteps: DefaultMaxSteps,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Rtol > 0 {
		d.Rtol = o.Rtol
	}
	if o.Atol > 0 {
		d.Atol = o.Atol
	}
	if o.FirstStep > 0 {
		d.FirstStep = o.FirstStep
	}
	if o.MaxStep > 0 {
		d.MaxStep = o.MaxStep
	}
	if o.MaxSteps > 0 {
		d.MaxSteps = o.MaxSteps
	}
	return d
}

// Solution holds the states sampled at the requested times. States has the
// same length as Times; entries past Reached were never integrated and are NaN.
type Solution struct {
	Times       []float64
	States      []dynamo.State
	Reached     int
	StepsTaken  int
	Rejected    int
	Evaluations int
}

// Solve integrates dyn from x0 at t0 up to t1 with adaptive Dormand-Prince
// steps and samples the dense output at each of times, which must be sorted
// and lie within [t0, t1]. On failure the partial Solution is returned along
// with a *dynamo.SimulationError.
func Solve(dyn dynamo.System, x0 dynamo.State, t0, t1 float64, times []float64, opts Options) (*Solution, error) {
	if len(x0) != dyn.StateDim() {
		return nil, fmt.Errorf("state has %d components, system wants %d: %w", len(x0), dyn.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !(t1 > t0) {
		return nil, fmt.Errorf("span [%g, %g]: %w", t0, t1, dynamo.ErrInvalidSpan)
	}
	for i, t := range times {
		if t < t0 || t > t1 || (i > 0 && t < times[i-1]) {
			return nil, fmt.Errorf("sample time %g at index %d: %w", t, i, dynamo.ErrInvalidSpan)
		}
	}
	opts = opts.withDefaults()

	sol := &Solution{
		Times:  append([]float64(nil), times...),
		States: make([]dynamo.State, len(times)),
	}
	defer sol.pad(len(x0))

	x := x0.Clone()
	t := t0
	next := 0
	for next < len(times) && times[next] == t0 {
		sol.States[next] = x0.Clone()
		next++
	}
	sol.Reached = next

	fail := func(err error) error {
		return &dynamo.SimulationError{Step: sol.StepsTaken, Time: t, State: x.Clone(), Wrapped: err}
	}

	if !x.IsValid() {
		return sol, fail(dynamo.ErrInvalidState)
	}
	f := dyn.Derive(x, t)
	sol.Evaluations++
	if !f.IsValid() {
		return sol, fail(dynamo.ErrInvalidState)
	}

	dt := opts.FirstStep
	if dt == 0 {
		dt = initialStep(dyn, x, f, t, t1, opts)
		sol.Evaluations++
	}

	r := NewRK45()
	for t < t1 {
		if sol.StepsTaken >= opts.MaxSteps {
			return sol, fail(dynamo.ErrStepLimit)
		}

		minStep := 10 * math.Abs(math.Nextafter(t, math.Inf(1))-t)
		dt = math.Min(dt, opts.MaxStep)
		dt = math.Max(dt, minStep)

		var xNew, fNew dynamo.State
		var h float64
		rejected := false
		for {
			if dt < minStep {
				return sol, fail(dynamo.ErrStepTooSmall)
			}
			tNew := math.Min(t+dt, t1)
			h = tNew - t

			var errEst dynamo.State
			xNew, fNew, errEst = r.Step(dyn, x, f, t, h)
			sol.Evaluations += 6
			errNorm := errorNorm(errEst, x, xNew, opts)

			// a non-finite trial compares false and is rejected like any other
			if errNorm < 1 {
				dt = h * r.nextScale(errNorm, true, rejected)
				break
			}
			dt = h * r.nextScale(errNorm, false, rejected)
			if math.IsNaN(dt) {
				dt = h * r.minScale
			}
			rejected = true
			sol.Rejected++
		}

		if !xNew.IsValid() || !fNew.IsValid() {
			x = xNew
			return sol, fail(dynamo.ErrInvalidState)
		}

		tNew := t + h
		if tNew > t1 || t1-tNew < minStep {
			tNew = t1
		}
		if next < len(times) && times[next] <= tNew {
			dense := r.Dense(x, t, h)
			for next < len(times) && times[next] <= tNew {
				sol.States[next] = dense.At(times[next])
				next++
			}
			sol.Reached = next
		}

		x, f, t = xNew, fNew, tNew
		sol.StepsTaken++
	}

	return sol, nil
}

// pad fills unreached samples with NaN.
func (s *Solution) pad(n int) {
	for i := s.Reached; i < len(s.States); i++ {
		st := make(dynamo.State, n)
		for j := range st {
			st[j] = math.NaN()
		}
		s.States[i] = st
	}
}

// errorNorm is the RMS of the local error scaled by atol + rtol*max(|x|, |xNew|).
func errorNorm(errEst, x, xNew dynamo.State, opts Options) float64 {
	sum := 0.0
	for i := range errEst {
		scale := opts.Atol + math.Max(math.Abs(x[i]), math.Abs(xNew[i]))*opts.Rtol
		e := errEst[i] / scale
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(errEst)))
}

func rms(v dynamo.State, scale dynamo.State) float64 {
	sum := 0.0
	for i := range v {
		e := v[i] / scale[i]
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(v)))
}

// initialStep picks the first step size following Hairer, Nørsett and Wanner,
// "Solving Ordinary Differential Equations I", sec. II.4.
func initialStep(dyn dynamo.System, x, f dynamo.State, t, t1 float64, opts Options) float64 {
	n := len(x)
	span := t1 - t
	scale := make(dynamo.State, n)
	for i := range x {
		scale[i] = opts.Atol + math.Abs(x[i])*opts.Rtol
	}

	d0 := rms(x, scale)
	d1 := rms(f, scale)
	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, span)

	x1 := make(dynamo.State, n)
	for i := range x {
		x1[i] = x[i] + h0*f[i]
	}
	f1 := dyn.Derive(x1, t+h0)

	diff := make(dynamo.State, n)
	for i := range f {
		diff[i] = f1[i] - f[i]
	}
	d2 := rms(diff, scale) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/(errorOrder+1))
	}

	return math.Min(math.Min(100*h0, h1), span)
}
