package calibration

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// pointSeparator splits the scene point from its screen position in a point-pair line.
const pointSeparator = " -> "

// token positions within an equation line "res = a * off / z + b".
const (
	eqResultToken = 0
	eqOffsetToken = 4
	eqDepthToken  = 6
	eqTokens      = 9
)

// literal padding an equation line must carry.
var eqPadding = []struct {
	idx int
	tok string
}{{1, "="}, {3, "*"}, {5, "/"}, {7, "+"}}

// LoadSamples reads a point-pair file, one "x,y,z -> xp,yp" per line.
func LoadSamples(path string) (samples []Sample, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening sample file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	samples, err = ReadSamples(f)
	return samples, withPath(err, path)
}

// ReadSamples parses point-pair lines from r. Blank lines are skipped.
func ReadSamples(r io.Reader) ([]Sample, error) {
	var samples []Sample
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s, err := parseSample(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading samples")
	}
	return samples, nil
}

func parseSample(line string) (Sample, error) {
	parts := strings.Split(line, pointSeparator)
	if len(parts) != 2 {
		return Sample{}, errors.Errorf("expected 2 %q separated points, got %d", strings.TrimSpace(pointSeparator), len(parts))
	}
	p, err := parseFloats(parts[0], ",", 3)
	if err != nil {
		return Sample{}, errors.Wrap(err, "scene point")
	}
	q, err := parseFloats(parts[1], ",", 2)
	if err != nil {
		return Sample{}, errors.Wrap(err, "screen point")
	}
	return Sample{
		Point:     r3.Vector{X: p[0], Y: p[1], Z: p[2]},
		Projected: r2.Point{X: q[0], Y: q[1]},
	}, nil
}

// LoadEquations reads an equation-row file.
func LoadEquations(path string) (set EquationSet, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return EquationSet{}, errors.Wrap(err, "error opening equation file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	set, err = ReadEquations(f)
	return set, withPath(err, path)
}

// ReadEquations parses equation rows from r. The first non-blank line may hold
// six prior coefficients "a b c d e f" for the horizontal (a b c) and vertical
// (d e f) axes. The remaining non-blank lines alternate horizontal and vertical
// equations of the same sample.
func ReadEquations(r io.Reader) (EquationSet, error) {
	var set EquationSet
	scanner := bufio.NewScanner(r)
	lineNo := 0
	first := true
	var pending *EquationRow
	var pendingLine int
	var pendingText string
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if prior, ok, err := parsePrior(line); ok {
				if err != nil {
					return EquationSet{}, &ParseError{Line: lineNo, Text: line, Err: err}
				}
				set.Prior = prior
				continue
			}
		}
		row, err := parseEquation(line)
		if err != nil {
			return EquationSet{}, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		if pending == nil {
			pending, pendingLine, pendingText = &row, lineNo, line
			continue
		}
		set.Horizontal = append(set.Horizontal, *pending)
		set.Vertical = append(set.Vertical, row)
		pending = nil
	}
	if err := scanner.Err(); err != nil {
		return EquationSet{}, errors.Wrap(err, "error reading equations")
	}
	if pending != nil {
		return EquationSet{}, &ParseError{
			Line: pendingLine,
			Text: pendingText,
			Err:  errors.New("horizontal equation has no vertical partner"),
		}
	}
	return set, nil
}

// parsePrior reports ok when line has the shape of a header (six tokens).
func parsePrior(line string) (*[2]AxisModel, bool, error) {
	if len(strings.Split(line, " ")) != 6 {
		return nil, false, nil
	}
	c, err := parseFloats(line, " ", 6)
	if err != nil {
		return nil, true, err
	}
	h, err := ModelFromCoefficients(c[0], c[1], c[2])
	if err != nil {
		return nil, true, errors.Wrap(err, "horizontal prior")
	}
	v, err := ModelFromCoefficients(c[3], c[4], c[5])
	if err != nil {
		return nil, true, errors.Wrap(err, "vertical prior")
	}
	return &[2]AxisModel{h, v}, true, nil
}

func parseEquation(line string) (EquationRow, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) != eqTokens {
		return EquationRow{}, errors.Errorf("expected %d tokens, got %d", eqTokens, len(tokens))
	}
	for _, p := range eqPadding {
		if tokens[p.idx] != p.tok {
			return EquationRow{}, errors.Errorf("token %d is %q, expected %q", p.idx, tokens[p.idx], p.tok)
		}
	}
	var row EquationRow
	for _, f := range []struct {
		idx int
		dst *float64
	}{
		{eqResultToken, &row.Result},
		{eqOffsetToken, &row.Offset},
		{eqDepthToken, &row.Depth},
	} {
		v, err := parseFinite(tokens[f.idx])
		if err != nil {
			return EquationRow{}, errors.Wrapf(err, "token %d", f.idx)
		}
		*f.dst = v
	}
	return row, nil
}

func parseFloats(s, sep string, want int) ([]float64, error) {
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != want {
		return nil, errors.Errorf("expected %d values, got %d", want, len(parts))
	}
	out := make([]float64, want)
	for i, p := range parts {
		v, err := parseFinite(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func withPath(err error, path string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Path = path
	}
	return err
}
