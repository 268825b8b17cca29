// Package calibration recovers the per-axis projection constants of the game's
// renderer from observed scene points and the screen positions they were drawn at.
package calibration

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// machine epsilon for float64.
var eps = math.Nextafter(1, 2) - 1

// FitObservations performs a least-squares fit of one projection axis.
// The renderer projects a coordinate as
//
//	projected = (coord + offset) * scale / z (+ center)
//
// which is linear in A = scale, B = offset*scale (and C = center). We build X
// (m x 2, or m x 3 with Options.Intercept) with rows [coord/z, 1/z (, 1)] and y
// holding the projected values, solve min |X a - y|² through the singular value
// decomposition of X, and recover offset = B / A.
//
// Every observation must have a non-zero depth, and the rows must determine all
// unknowns; otherwise a *DegenerateSampleError or *InsufficientDataError is returned.
func FitObservations(obs []Observation, opts Options) (AxisFit, error) {
	for i, o := range obs {
		if o.Depth == 0 {
			return AxisFit{}, &DegenerateSampleError{Index: i}
		}
	}
	m, n := len(obs), opts.unknowns()
	if m < n {
		return AxisFit{}, &InsufficientDataError{Observations: m, Unknowns: n}
	}

	// Build X (m x n) and y (m)
	X := mat.NewDense(m, n, nil)
	y := mat.NewVecDense(m, nil)
	for i, o := range obs {
		X.Set(i, 0, o.Coord/o.Depth)
		X.Set(i, 1, 1/o.Depth)
		if opts.Intercept {
			X.Set(i, 2, 1)
		}
		y.SetVec(i, o.Projected)
	}

	var svd mat.SVD
	if !svd.Factorize(X, mat.SVDThin) {
		return AxisFit{}, errors.New("singular value decomposition failed")
	}
	if rank := svd.Rank(rcond(m, n)); rank < n {
		return AxisFit{}, &InsufficientDataError{Observations: m, Unknowns: n, Rank: rank}
	}
	var sol mat.VecDense
	svd.SolveVecTo(&sol, y, n)

	a := sol.AtVec(0)
	if a == 0 {
		return AxisFit{}, ErrZeroScale
	}
	model := AxisModel{Scale: a, Offset: sol.AtVec(1) / a}
	if opts.Intercept {
		model.Center = sol.AtVec(2)
	}

	// objective value as the solver sees it
	var pred, r mat.VecDense
	pred.MulVec(X, &sol)
	r.SubVec(y, &pred)

	return AxisFit{
		Model:     model,
		Residuals: ComputeResiduals(obs, model),
		RSS:       mat.Dot(&r, &r),
		Condition: svd.Cond(),
	}, nil
}

// rcond is the relative singular value cut-off below which a direction of the
// design matrix counts as undetermined; numpy's lstsq uses the same default.
func rcond(m, n int) float64 {
	return float64(max(m, n)) * eps
}

// ComputeResiduals returns |model(o) - o.Projected| for every observation.
func ComputeResiduals(obs []Observation, model AxisModel) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = math.Abs(model.Project(o.Coord, o.Depth) - o.Projected)
	}
	return out
}

// SampleObservations extracts the rows one axis contributes from samples.
func SampleObservations(samples []Sample, axis Axis) []Observation {
	obs := make([]Observation, len(samples))
	for i, s := range samples {
		obs[i] = axis.Observation(s)
	}
	return obs
}

// FitAxis fits a single axis of the point-pair samples.
func FitAxis(samples []Sample, axis Axis, opts Options) (AxisFit, error) {
	return FitObservations(SampleObservations(samples, axis), opts)
}

// Fit fits both axes of the point-pair samples independently.
func Fit(samples []Sample, opts Options) (*FitResult, error) {
	h, err := FitAxis(samples, Horizontal, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s axis", Horizontal)
	}
	v, err := FitAxis(samples, Vertical, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s axis", Vertical)
	}
	return &FitResult{Horizontal: h, Vertical: v}, nil
}

// FitEquations fits both axes from pre-derived equation rows. The rows go
// through FitObservations exactly like point-pair samples do. If the set
// carries prior coefficient models, their residuals against the same rows
// are reported alongside the fit.
func FitEquations(set EquationSet, opts Options) (*EquationFitResult, error) {
	hObs := Observations(set.Horizontal)
	vObs := Observations(set.Vertical)

	h, err := FitObservations(hObs, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s axis", Horizontal)
	}
	v, err := FitObservations(vObs, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s axis", Vertical)
	}

	res := &EquationFitResult{FitResult: FitResult{Horizontal: h, Vertical: v}}
	if set.Prior != nil {
		res.PriorResiduals = &[2][]float64{
			ComputeResiduals(hObs, set.Prior[Horizontal]),
			ComputeResiduals(vObs, set.Prior[Vertical]),
		}
	}
	return res, nil
}
