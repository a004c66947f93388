// Package integrator implements an embedded explicit Runge-Kutta stepper
// with adaptive step-size control, and the driver that advances an
// astrocore.State for a duration or until an epoch.
package integrator

// Method is an immutable Butcher tableau describing an embedded explicit RK
// method: s stages, a lower-triangular coefficient table, and two sets of
// weights (b, bStar) giving the primary and secondary (embedded) solutions
// used to estimate truncation error.
type Method struct {
	Name   string
	Order  int         // order of the primary solution
	Stages int         // s
	A      [][]float64 // s x s lower triangular, A[i][j] valid for j<i
	B      []float64   // primary weights, length s
	BStar  []float64   // embedded (secondary) weights, length s
	C      []float64   // nodes, length s
}

// RK4 is the classical fixed-step 4th order method, used here in
// "fixed_step" mode (see Options.FixedStep) since it carries no embedded
// error estimate — BStar mirrors B so LargestError reports zero.
var RK4 = Method{
	Name:   "RK4",
	Order:  4,
	Stages: 4,
	A: [][]float64{
		{},
		{0.5},
		{0, 0.5},
		{0, 0, 1},
	},
	B:     []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
	BStar: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
	C:     []float64{0, 0.5, 0.5, 1},
}

// RKF45 is the Runge-Kutta-Fehlberg 4(5) embedded pair, coefficients as
// tabulated by Fehlberg (1969). B holds the 4th-order weights that advance
// the state and BStar the 5th-order ones.
var RKF45 = Method{
	Name:   "RKF45",
	Order:  4,
	Stages: 6,
	A: [][]float64{
		{},
		{1.0 / 4},
		{3.0 / 32, 9.0 / 32},
		{1932.0 / 2197, -7200.0 / 2197, 7296.0 / 2197},
		{439.0 / 216, -8, 3680.0 / 513, -845.0 / 4104},
		{-8.0 / 27, 2, -3544.0 / 2565, 1859.0 / 4104, -11.0 / 40},
	},
	B:     []float64{25.0 / 216, 0, 1408.0 / 2565, 2197.0 / 4104, -1.0 / 5, 0},
	BStar: []float64{16.0 / 135, 0, 6656.0 / 12825, 28561.0 / 56430, -9.0 / 50, 2.0 / 55},
	C:     []float64{0, 1.0 / 4, 3.0 / 8, 12.0 / 13, 1, 1.0 / 2},
}

// DormandPrince54 is the Dormand-Prince 5(4) embedded pair, the default
// method for most propagations (good error-per-step efficiency).
var DormandPrince54 = Method{
	Name:   "DormandPrince54",
	Order:  5,
	Stages: 7,
	A: [][]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	},
	B:     []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0},
	BStar: []float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40},
	C:     []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
}
