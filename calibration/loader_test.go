package calibration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestReadSamples(t *testing.T) {
	in := "10,20,100 -> 42.5,-3\n\n-5.5, 0, 12.25 -> 1,2\n"
	samples, err := ReadSamples(strings.NewReader(in))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, samples, test.ShouldResemble, []Sample{
		{Point: r3.Vector{X: 10, Y: 20, Z: 100}, Projected: r2.Point{X: 42.5, Y: -3}},
		{Point: r3.Vector{X: -5.5, Y: 0, Z: 12.25}, Projected: r2.Point{X: 1, Y: 2}},
	})
}

func TestReadSamplesMalformed(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		line int
	}{
		{"no arrow", "1,2,3 4,5", 1},
		{"short point", "1,2,3 -> 4,5\n1,2 -> 4,5", 2},
		{"long screen point", "1,2,3 -> 4,5,6", 1},
		{"not a number", "\n\n1,b,3 -> 4,5", 3},
		{"nan depth", "1,2,NaN -> 4,5", 1},
		{"infinite screen point", "1,2,3 -> +Inf,5", 1},
		{"three parts", "1,2,3 -> 4,5 -> 6,7", 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadSamples(strings.NewReader(tc.in))
			var pe *ParseError
			test.That(t, errors.As(err, &pe), test.ShouldBeTrue)
			test.That(t, pe.Line, test.ShouldEqual, tc.line)
		})
	}
}

func TestLoadSamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pts.txt")
	test.That(t, os.WriteFile(path, []byte("1,2,4 -> 3,4\n"), 0o644), test.ShouldBeNil)

	samples, err := LoadSamples(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, samples, test.ShouldHaveLength, 1)

	bad := filepath.Join(dir, "bad.txt")
	test.That(t, os.WriteFile(bad, []byte("1,2,4 -> x,4\n"), 0o644), test.ShouldBeNil)
	_, err = LoadSamples(bad)
	var pe *ParseError
	test.That(t, errors.As(err, &pe), test.ShouldBeTrue)
	test.That(t, pe.Path, test.ShouldEqual, bad)
	test.That(t, err.Error(), test.ShouldContainSubstring, bad+":1")

	_, err = LoadSamples(filepath.Join(dir, "missing.txt"))
	test.That(t, errors.Is(err, fs.ErrNotExist), test.ShouldBeTrue)
}

func TestReadEquations(t *testing.T) {
	in := strings.Join([]string{
		"2 10 0 3 -6 100",
		"110 = a * 10 / 1 + b",
		"57 = d * 19 / 1 + e",
		"",
		"60 = a * 20 / 2 + b",
		"29 = d * 18 / 2 + e",
		"",
	}, "\n")
	set, err := ReadEquations(strings.NewReader(in))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, set.Prior, test.ShouldNotBeNil)
	test.That(t, set.Prior[Horizontal], test.ShouldResemble, AxisModel{Scale: 2, Offset: 5, Center: 0})
	test.That(t, set.Prior[Vertical], test.ShouldResemble, AxisModel{Scale: 3, Offset: -2, Center: 100})
	test.That(t, set.Horizontal, test.ShouldResemble, []EquationRow{
		{Result: 110, Offset: 10, Depth: 1},
		{Result: 60, Offset: 20, Depth: 2},
	})
	test.That(t, set.Vertical, test.ShouldResemble, []EquationRow{
		{Result: 57, Offset: 19, Depth: 1},
		{Result: 29, Offset: 18, Depth: 2},
	})
}

func TestReadEquationsWithoutPrior(t *testing.T) {
	set, err := ReadEquations(strings.NewReader("1 = a * 2 / 3 + b\n4 = d * 5 / 6 + e\n"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, set.Prior, test.ShouldBeNil)
	test.That(t, set.Horizontal, test.ShouldHaveLength, 1)
	test.That(t, set.Vertical, test.ShouldHaveLength, 1)
}

func TestReadEquationsMalformed(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		line int
	}{
		{"bad prior", "1 2 x 4 5 6\n", 1},
		{"zero prior scale", "0 2 3 4 5 6\n", 1},
		{"short equation", "1 = a * 2\n", 1},
		{"bad depth", "1 = a * 2 / z + b\n", 1},
		{"nan depth", "1 = a * 2 / NaN + b\n4 = d * 5 / 6 + e\n", 1},
		{"inf prior", "1 2 3 Inf 5 6\n", 1},
		{"double space header", "2  10 0 3 -6 100\n110 = a * 10 / 1 + b\n57 = d * 19 / 1 + e\n", 1},
		{"wrong padding", "1 = a * 2 / 3 + b\n4 x d * 5 / 6 + e\n", 2},
		{"divide swapped", "1 = a * 2 * 3 + b\n4 = d * 5 / 6 + e\n", 1},
		{"trailing tokens", "1 = a * 2 / 3 + b + c\n4 = d * 5 / 6 + e\n", 1},
		{"unpaired", "1 = a * 2 / 3 + b\n4 = d * 5 / 6 + e\n7 = a * 8 / 9 + b\n", 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadEquations(strings.NewReader(tc.in))
			var pe *ParseError
			test.That(t, errors.As(err, &pe), test.ShouldBeTrue)
			test.That(t, pe.Line, test.ShouldEqual, tc.line)
		})
	}
}

func TestLoadEquationsMissing(t *testing.T) {
	_, err := LoadEquations(filepath.Join(t.TempDir(), "missing.txt"))
	test.That(t, errors.Is(err, fs.ErrNotExist), test.ShouldBeTrue)
}
