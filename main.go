// Package main recovers the renderer's projection constants from observed scene points
// and prints how well the fitted model explains every sample.
package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"Projection-Calibration/calibration"
	"Projection-Calibration/report"
)

// conditions above this get a warning; the fit still runs.
const illConditioned = 1e8

// the drum animation cycles through this many rotations.
const drumSteps = 15

var logger = golog.NewDevelopmentLogger("calibrate")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Points    string `flag:"points,usage=point-pair sample file"`
	Equations string `flag:"equations,usage=equation-row file"`
	Intercept bool   `flag:"intercept,usage=also fit a screen-centre term"`
	Plot      string `flag:"plot,usage=write a residual chart for the fit to this path"`
	Drum      string `flag:"drum,usage=print the rotations of this byte e.g. 0xEF"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Points == "" && argsParsed.Equations == "" && argsParsed.Drum == "" {
		return errors.New("one of -points, -equations or -drum is required")
	}
	if argsParsed.Plot != "" && (argsParsed.Points == "") == (argsParsed.Equations == "") {
		return errors.New("-plot needs exactly one of -points or -equations")
	}
	return run(ctx, os.Stdout, argsParsed, logger)
}

func run(ctx context.Context, w io.Writer, args Arguments, logger golog.Logger) error {
	opts := calibration.Options{Intercept: args.Intercept}

	if args.Points != "" {
		samples, err := calibration.LoadSamples(args.Points)
		if err != nil {
			return err
		}
		logger.Infow("loaded samples", "path", args.Points, "count", len(samples))

		fit, err := calibration.Fit(samples, opts)
		if err != nil {
			return errors.Wrap(err, "calculation error")
		}
		warnConditioning(logger, fit)
		if err := report.WriteFit(w, args.Points, fit); err != nil {
			return err
		}
		if err := plot(args.Plot, args.Points, fit, logger); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if args.Equations != "" {
		set, err := calibration.LoadEquations(args.Equations)
		if err != nil {
			return err
		}
		logger.Infow("loaded equations", "path", args.Equations, "count", len(set.Horizontal), "prior", set.Prior != nil)

		res, err := calibration.FitEquations(set, opts)
		if err != nil {
			return errors.Wrap(err, "calculation error")
		}
		warnConditioning(logger, &res.FitResult)
		if err := report.WriteEquationFit(w, args.Equations, res); err != nil {
			return err
		}
		if err := plot(args.Plot, args.Equations, &res.FitResult, logger); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if args.Drum != "" {
		v, err := strconv.ParseUint(args.Drum, 0, 8)
		if err != nil {
			return errors.Wrapf(err, "error parsing drum byte %q", args.Drum)
		}
		return report.WriteRotations(w, uint8(v), drumSteps)
	}
	return nil
}

func plot(path, title string, fit *calibration.FitResult, logger golog.Logger) error {
	if path == "" {
		return nil
	}
	if err := report.PlotResiduals(path, title, fit); err != nil {
		return err
	}
	logger.Infow("wrote residual plot", "path", path)
	return nil
}

func warnConditioning(logger golog.Logger, fit *calibration.FitResult) {
	for _, a := range []struct {
		axis calibration.Axis
		fit  calibration.AxisFit
	}{
		{calibration.Horizontal, fit.Horizontal},
		{calibration.Vertical, fit.Vertical},
	} {
		if a.fit.Condition > illConditioned {
			logger.Warnw("design matrix is ill-conditioned, constants may be unreliable",
				"axis", a.axis, "cond", a.fit.Condition)
		}
		logger.Debugw("fit", "axis", a.axis, "scale", a.fit.Model.Scale, "offset", a.fit.Model.Offset,
			"center", a.fit.Model.Center, "rss", a.fit.RSS)
	}
}
