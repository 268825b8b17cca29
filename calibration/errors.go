package calibration

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrZeroScale is returned when a model's scale is zero, leaving its offset undefined.
var ErrZeroScale = errors.New("scale is zero, offset cannot be recovered")

// ParseError reports a malformed input line.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	src := e.Path
	if src == "" {
		src = "input"
	}
	return fmt.Sprintf("%s:%d: cannot parse %q: %v", src, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DegenerateSampleError reports an observation with zero depth.
type DegenerateSampleError struct {
	Index int
}

func (e *DegenerateSampleError) Error() string {
	return fmt.Sprintf("sample %d has zero depth", e.Index)
}

// InsufficientDataError reports a system that does not determine its unknowns.
type InsufficientDataError struct {
	Observations int
	Unknowns     int
	// Rank is only set when the rows were plentiful but linearly dependent.
	Rank int
}

func (e *InsufficientDataError) Error() string {
	if e.Rank > 0 || e.Observations >= e.Unknowns {
		return fmt.Sprintf("rank deficient system: rank %d of %d unknowns from %d samples",
			e.Rank, e.Unknowns, e.Observations)
	}
	return fmt.Sprintf("need at least %d samples, got %d", e.Unknowns, e.Observations)
}
