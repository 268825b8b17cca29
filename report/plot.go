package report

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"Projection-Calibration/calibration"
)

// PlotResiduals draws the residual of every sample on both axes and saves it to path.
// The image format follows the file extension.
func PlotResiduals(path, title string, fit *calibration.FitResult) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "|predicted - observed|"

	if err := plotutil.AddLinePoints(p,
		"x", residualXYs(fit.Horizontal.Residuals),
		"y", residualXYs(fit.Vertical.Residuals),
	); err != nil {
		return errors.Wrap(err, "error adding residual lines")
	}
	return errors.Wrapf(p.Save(8*vg.Inch, 4*vg.Inch, path), "error saving plot to %q", path)
}

func residualXYs(residuals []float64) plotter.XYs {
	pts := make(plotter.XYs, len(residuals))
	for i, r := range residuals {
		pts[i].X = float64(i)
		pts[i].Y = r
	}
	return pts
}
