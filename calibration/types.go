package calibration

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is one observed scene point paired with where the game drew it on screen.
type Sample struct {
	Point     r3.Vector
	Projected r2.Point
}

// Axis selects one of the two independent projection axes.
type Axis int

// The two projection axes.
const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Observation returns the row of the axis system contributed by s.
func (a Axis) Observation(s Sample) Observation {
	if a == Vertical {
		return Observation{Coord: s.Point.Y, Depth: s.Point.Z, Projected: s.Projected.Y}
	}
	return Observation{Coord: s.Point.X, Depth: s.Point.Z, Projected: s.Projected.X}
}

// Observation is a single equation of one axis: Projected ≈ (Coord + offset) * scale / Depth.
type Observation struct {
	Coord     float64
	Depth     float64
	Projected float64
}

// AxisModel holds the recovered constants of one axis.
type AxisModel struct {
	Scale  float64
	Offset float64
	Center float64
}

// Project predicts the screen coordinate of coord seen at depth.
func (m AxisModel) Project(coord, depth float64) float64 {
	return (coord+m.Offset)*m.Scale/depth + m.Center
}

// ModelFromCoefficients converts the linear form a*coord/z + b/z + c into an AxisModel.
func ModelFromCoefficients(a, b, c float64) (AxisModel, error) {
	if a == 0 {
		return AxisModel{}, ErrZeroScale
	}
	return AxisModel{Scale: a, Offset: b / a, Center: c}, nil
}

// Options tweak how an axis system is built.
type Options struct {
	// Intercept adds a constant column so a screen-centre term is fit as well.
	Intercept bool
}

func (o Options) unknowns() int {
	if o.Intercept {
		return 3
	}
	return 2
}

// AxisFit is the outcome of fitting one axis.
type AxisFit struct {
	Model     AxisModel
	Residuals []float64
	// RSS is the least-squares objective, the sum of squared residuals.
	RSS       float64
	Condition float64
}

// Sum returns the summed absolute residual.
func (f AxisFit) Sum() float64 {
	return floats.Sum(f.Residuals)
}

// Mean returns the mean absolute residual.
func (f AxisFit) Mean() float64 {
	if len(f.Residuals) == 0 {
		return 0
	}
	return stat.Mean(f.Residuals, nil)
}

// FitResult holds both axis fits.
type FitResult struct {
	Horizontal AxisFit
	Vertical   AxisFit
}

// Combined returns the per-sample sum of the horizontal and vertical residuals.
func (r *FitResult) Combined() []float64 {
	out := make([]float64, len(r.Horizontal.Residuals))
	floats.Add(out, r.Horizontal.Residuals)
	floats.Add(out, r.Vertical.Residuals)
	return out
}

// EquationRow is one pre-derived equation: Result ≈ a*Offset/Depth + b/Depth + c.
type EquationRow struct {
	Result float64
	Offset float64
	Depth  float64
}

// EquationSet is the parsed content of an equation-row file.
type EquationSet struct {
	// Prior holds the header coefficient models, if the file had a header.
	Prior      *[2]AxisModel
	Horizontal []EquationRow
	Vertical   []EquationRow
}

// Observations reduces equation rows to axis observations.
func Observations(rows []EquationRow) []Observation {
	obs := make([]Observation, len(rows))
	for i, r := range rows {
		obs[i] = Observation{Coord: r.Offset, Depth: r.Depth, Projected: r.Result}
	}
	return obs
}

// EquationFitResult is a FitResult plus how well the prior models did.
type EquationFitResult struct {
	FitResult
	// PriorResiduals is nil when the set had no prior.
	PriorResiduals *[2][]float64
}
