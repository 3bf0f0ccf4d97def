// Package testutil provides shared test infrastructure for the oracle packages.
// It holds the golden dataset types and assertion helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one plane catalogue with hand-checked query answers.
type GoldenTestCase struct {
	Name         string               `json:"name"`
	Planes       [][]float64          `json:"planes"`
	Minimize     []GoldenMinimize     `json:"minimize"`
	Directed     []GoldenDirected     `json:"directed"`
	Conservative []GoldenConservative `json:"conservative"`
	Session      *GoldenSession       `json:"session,omitempty"`
}

// GoldenMinimize is the expected lower envelope at one point.
type GoldenMinimize struct {
	Point []float64 `json:"point"`
	Cost  float64   `json:"cost"`
	Index int       `json:"index"`
}

// GoldenDirected is the expected directed drift step from one point.
type GoldenDirected struct {
	Point    []float64   `json:"point"`
	Drift    []float64   `json:"drift"`
	Current  int         `json:"current"`
	Distance GoldenFloat `json:"distance"`
	Next     int         `json:"next"`
}

// GoldenConservative is the expected safety radius at one point.
type GoldenConservative struct {
	Point   []float64   `json:"point"`
	Current int         `json:"current"`
	Radius  GoldenFloat `json:"radius"`
	Next    int         `json:"next"`
}

// GoldenSession is the expected breakpoint sequence of a drift walk.
type GoldenSession struct {
	Start    []float64 `json:"start"`
	Drift    []float64 `json:"drift"`
	Switches [][2]int  `json:"switches"` // (from, to) per breakpoint
	Offsets  []float64 `json:"offsets"`
	Stopped  string    `json:"stopped"`
}

// GoldenFloat is a float64 that also accepts the JSON string "inf".
type GoldenFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (g *GoldenFloat) UnmarshalJSON(b []byte) error {
	if string(b) == `"inf"` {
		*g = GoldenFloat(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*g = GoldenFloat(f)
	return nil
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: oracle/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
// Equal infinities compare equal.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if math.IsNaN(diff) || diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
