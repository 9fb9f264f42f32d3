package integrators

import (
	"math"

	"github.com/san-kum/tbphase/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// Continuous extension of order 4. Row j multiplies stage k_j, column m the
// power x^(m+1) of the normalized step position x in [0, 1].
var denseP = [7][4]float64{
	{1, -8048581381.0 / 2820520608.0, 8663915743.0 / 2820520608.0, -12715105075.0 / 11282082432.0},
	{0, 0, 0, 0},
	{0, 131558114200.0 / 32700410799.0, -68118460800.0 / 10900136933.0, 87487479700.0 / 32700410799.0},
	{0, -1754552775.0 / 470086768.0, 14199869525.0 / 1410260304.0, -10690763975.0 / 1880347072.0},
	{0, 127303824393.0 / 49829197408.0, -318862633887.0 / 49829197408.0, 701980252875.0 / 199316789632.0},
	{0, -282668133.0 / 205662961.0, 2019193451.0 / 616988883.0, -1453857185.0 / 822651844.0},
	{0, 40617522.0 / 29380423.0, -110615467.0 / 29380423.0, 69997945.0 / 29380423.0},
}

// errorOrder is the order of the embedded estimator; step factors scale
// with errNorm^(-1/(errorOrder+1)).
const errorOrder = 4

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64

	k [7]dynamo.State
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) ensureScratch(n int) {
	if len(r.k[0]) != n {
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
	}
}

// Step takes a single Dormand-Prince step of size dt from (t, x), where f is
// the derivative at (t, x). It returns the 5th-order solution, the derivative
// there (first-same-as-last), and the local error estimate per component.
// The stages stay in r.k until the next call so Dense can use them.
func (r *RK45) Step(dyn dynamo.System, x, f dynamo.State, t, dt float64) (dynamo.State, dynamo.State, dynamo.State) {
	n := len(x)
	r.ensureScratch(n)
	k := &r.k
	copy(k[0], f)

	tmp := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*b21*k[0][i]
	}
	copy(k[1], dyn.Derive(tmp, t+a2*dt))

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b31*k[0][i]+b32*k[1][i])
	}
	copy(k[2], dyn.Derive(tmp, t+a3*dt))

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b41*k[0][i]+b42*k[1][i]+b43*k[2][i])
	}
	copy(k[3], dyn.Derive(tmp, t+a4*dt))

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b51*k[0][i]+b52*k[1][i]+b53*k[2][i]+b54*k[3][i])
	}
	copy(k[4], dyn.Derive(tmp, t+a5*dt))

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b61*k[0][i]+b62*k[1][i]+b63*k[2][i]+b64*k[3][i]+b65*k[4][i])
	}
	copy(k[5], dyn.Derive(tmp, t+dt))

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k[0][i]+c3*k[2][i]+c4*k[3][i]+c5*k[4][i]+c6*k[5][i])
	}

	fNew := dyn.Derive(xNew, t+dt)
	copy(k[6], fNew)

	errEst := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		errEst[i] = dt * (dc1*k[0][i] + dc3*k[2][i] + dc4*k[3][i] + dc5*k[4][i] + dc6*k[5][i] + dc7*k[6][i])
	}

	return xNew, fNew, errEst
}

// Dense returns the interpolant of the last step taken from (t, x) with size dt.
func (r *RK45) Dense(x dynamo.State, t, dt float64) *Dense {
	n := len(x)
	d := &Dense{t0: t, dt: dt, x0: x.Clone(), q: make([][4]float64, n)}
	for i := 0; i < n; i++ {
		for j := 0; j < len(r.k); j++ {
			for m := 0; m < 4; m++ {
				d.q[i][m] += r.k[j][i] * denseP[j][m]
			}
		}
	}
	return d
}

// nextScale returns the step size multiplier for a given error norm.
func (r *RK45) nextScale(errNorm float64, accepted, rejectedBefore bool) float64 {
	if accepted {
		if errNorm == 0 {
			return r.maxScale
		}
		scale := math.Min(r.maxScale, r.safety*math.Pow(errNorm, -1.0/(errorOrder+1)))
		if rejectedBefore {
			scale = math.Min(1, scale)
		}
		return scale
	}
	return math.Max(r.minScale, r.safety*math.Pow(errNorm, -1.0/(errorOrder+1)))
}

// Dense is the continuous extension of one accepted step.
type Dense struct {
	t0, dt float64
	x0     dynamo.State
	q      [][4]float64
}

// At evaluates the interpolant at t, which should lie within the step.
func (d *Dense) At(t float64) dynamo.State {
	x := (t - d.t0) / d.dt
	out := make(dynamo.State, len(d.x0))
	for i := range out {
		q := d.q[i]
		// Horner form of x*q0 + x²*q1 + x³*q2 + x⁴*q3
		poly := x * (q[0] + x*(q[1]+x*(q[2]+x*q[3])))
		out[i] = d.x0[i] + d.dt*poly
	}
	return out
}
