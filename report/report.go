// Package report renders fitted projection constants and their residuals for a person to read.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"Projection-Calibration/calibration"
	"Projection-Calibration/drum"
)

// WriteFit prints the fitted constants of both axes followed by the per-sample residuals.
func WriteFit(w io.Writer, title string, fit *calibration.FitResult) error {
	if _, err := fmt.Fprintln(w, modelTable(title, fit)); err != nil {
		return errors.Wrap(err, "error writing model table")
	}
	_, err := fmt.Fprintln(w, residualTable(fit, nil))
	return errors.Wrap(err, "error writing residual table")
}

// WriteEquationFit prints an equation-row fit, including how the prior coefficients did when present.
func WriteEquationFit(w io.Writer, title string, res *calibration.EquationFitResult) error {
	if _, err := fmt.Fprintln(w, modelTable(title, &res.FitResult)); err != nil {
		return errors.Wrap(err, "error writing model table")
	}
	_, err := fmt.Fprintln(w, residualTable(&res.FitResult, res.PriorResiduals))
	return errors.Wrap(err, "error writing residual table")
}

// WriteRotations prints value rotated right by 0..steps-1 in binary.
func WriteRotations(w io.Writer, value uint8, steps int) error {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("ROR 0x%02X", value))
	t.AppendHeader(table.Row{"n", "bin", "hex"})
	for i, r := range drum.Rotations(value, steps) {
		t.AppendRow(table.Row{i, fmt.Sprintf("0b%08b", r), fmt.Sprintf("0x%02X", r)})
	}
	_, err := fmt.Fprintln(w, t.Render())
	return errors.Wrap(err, "error writing rotation table")
}

func modelTable(title string, fit *calibration.FitResult) string {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Axis", "Scale", "Offset", "Center", "RSS", "Cond"})
	for _, a := range []struct {
		name string
		fit  calibration.AxisFit
	}{
		{"X", fit.Horizontal},
		{"Y", fit.Vertical},
	} {
		m := a.fit.Model
		t.AppendRow(table.Row{
			a.name,
			fmt.Sprintf("%.10g", m.Scale),
			fmt.Sprintf("%.10g", m.Offset),
			fmt.Sprintf("%.10g", m.Center),
			fmt.Sprintf("%.6g", a.fit.RSS),
			fmt.Sprintf("%.3g", a.fit.Condition),
		})
	}
	return t.Render()
}

func residualTable(fit *calibration.FitResult, prior *[2][]float64) string {
	t := table.NewWriter()
	header := table.Row{"#", "|err x|", "|err y|", "|err|"}
	if prior != nil {
		header = append(header, "prior x", "prior y")
	}
	t.AppendHeader(header)

	combined := fit.Combined()
	for i := range combined {
		row := table.Row{
			i,
			fmt.Sprintf("%.6g", fit.Horizontal.Residuals[i]),
			fmt.Sprintf("%.6g", fit.Vertical.Residuals[i]),
			fmt.Sprintf("%.6g", combined[i]),
		}
		if prior != nil {
			row = append(row, fmt.Sprintf("%.6g", prior[0][i]), fmt.Sprintf("%.6g", prior[1][i]))
		}
		t.AppendRow(row)
	}

	sum := fit.Horizontal.Sum() + fit.Vertical.Sum()
	footer := table.Row{"sum", fmt.Sprintf("%.6g", fit.Horizontal.Sum()), fmt.Sprintf("%.6g", fit.Vertical.Sum()), fmt.Sprintf("%.6g", sum)}
	mean := table.Row{"mean", fmt.Sprintf("%.6g", fit.Horizontal.Mean()), fmt.Sprintf("%.6g", fit.Vertical.Mean()), ""}
	if len(combined) > 0 {
		mean[3] = fmt.Sprintf("%.6g", sum/float64(len(combined)))
	}
	t.AppendFooter(footer)
	t.AppendFooter(mean)
	return t.Render()
}
