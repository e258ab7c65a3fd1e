package filter

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Kalman smooths points with a constant-velocity Kalman filter over the
// state [x, y, vx, vy]. Only position is observed; velocity is inferred.
// The filter initializes lazily: the first measurement seeds the position
// with zero velocity and is returned unfiltered.
type Kalman struct {
	dt float64

	a *mat.Dense // state transition
	h *mat.Dense // measurement model
	q *mat.Dense // process noise covariance
	r *mat.Dense // measurement noise covariance

	x           *mat.VecDense // state estimate
	p           *mat.Dense    // estimate covariance
	initialized bool
}

// NewKalman creates a Kalman filter with time step dt between ticks and the
// given process and measurement noise standard deviations. All three
// parameters must be positive.
func NewKalman(dt, processNoiseStd, measurementNoiseStd float64) (*Kalman, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("kalman time step must be positive, got %g", dt)
	}
	if processNoiseStd <= 0 {
		return nil, fmt.Errorf("kalman process noise std must be positive, got %g", processNoiseStd)
	}
	if measurementNoiseStd <= 0 {
		return nil, fmt.Errorf("kalman measurement noise std must be positive, got %g", measurementNoiseStd)
	}

	qPos := processNoiseStd * processNoiseStd
	qVel := (processNoiseStd * dt) * (processNoiseStd * dt)
	rVar := measurementNoiseStd * measurementNoiseStd

	return &Kalman{
		dt: dt,
		a: mat.NewDense(4, 4, []float64{
			1, 0, dt, 0,
			0, 1, 0, dt,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}),
		h: mat.NewDense(2, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
		}),
		q: mat.NewDense(4, 4, []float64{
			qPos, 0, 0, 0,
			0, qPos, 0, 0,
			0, 0, qVel, 0,
			0, 0, 0, qVel,
		}),
		r: mat.NewDense(2, 2, []float64{
			rVar, 0,
			0, rVar,
		}),
	}, nil
}

// Filter runs one predict-then-update cycle and returns the corrected
// position estimate.
func (k *Kalman) Filter(pt Point) Point {
	if !k.initialized {
		k.x = mat.NewVecDense(4, []float64{pt.X, pt.Y, 0, 0})
		k.p = identity(4)
		k.initialized = true
		return pt
	}

	// Predict: x = A x, P = A P Aᵀ + Q.
	var xPred mat.VecDense
	xPred.MulVec(k.a, k.x)

	var ap, pPred mat.Dense
	ap.Mul(k.a, k.p)
	pPred.Mul(&ap, k.a.T())
	pPred.Add(&pPred, k.q)

	// Innovation covariance S = H P Hᵀ + R.
	var hp, s mat.Dense
	hp.Mul(k.h, &pPred)
	s.Mul(&hp, k.h.T())
	s.Add(&s, k.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		// Singular innovation covariance carries no usable information;
		// keep the prediction rather than propagate NaNs.
		k.x.CopyVec(&xPred)
		k.p.Copy(&pPred)
		return Point{X: xPred.AtVec(0), Y: xPred.AtVec(1)}
	}

	// Gain K = P Hᵀ S⁻¹.
	var pht, gain mat.Dense
	pht.Mul(&pPred, k.h.T())
	gain.Mul(&pht, &sInv)

	// Correction: x = x + K (z − H x).
	z := mat.NewVecDense(2, []float64{pt.X, pt.Y})
	var hx, resid, corr, xNew mat.VecDense
	hx.MulVec(k.h, &xPred)
	resid.SubVec(z, &hx)
	corr.MulVec(&gain, &resid)
	xNew.AddVec(&xPred, &corr)

	// Covariance: P = (I − K H) P.
	var kh mat.Dense
	kh.Mul(&gain, k.h)
	ikh := identity(4)
	ikh.Sub(ikh, &kh)
	var pNew mat.Dense
	pNew.Mul(ikh, &pPred)

	k.x.CopyVec(&xNew)
	k.p.Copy(&pNew)
	return Point{X: xNew.AtVec(0), Y: xNew.AtVec(1)}
}

// Reset discards the state estimate; the next call re-initializes from its
// measurement.
func (k *Kalman) Reset() {
	k.initialized = false
	k.x = nil
	k.p = nil
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
