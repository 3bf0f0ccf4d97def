// Package experiment runs benchmark sweeps over the oracle queries. An
// experiment file lists experiments; each expands the cross product of its
// argument lists, times every combination and rewrites its CSV after each one.
package experiment

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cloud-oracle/cloud-oracle/oracle"
	"github.com/cloud-oracle/cloud-oracle/oracle/synth"
)

// UseCase selects which query an experiment benchmarks.
type UseCase string

const (
	UseCaseMinimization UseCase = "minimization"
	UseCaseDrift        UseCase = "drift"
	UseCaseSimulation   UseCase = "simulation"
)

// Drift types for the drift use case.
const (
	DriftDirected     = "directed"
	DriftConservative = "conservative"
)

var validUseCases = map[UseCase]bool{
	UseCaseMinimization: true, UseCaseDrift: true, UseCaseSimulation: true,
}

// File represents the full experiments YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type File struct {
	Version     string       `yaml:"version"`
	Experiments []Experiment `yaml:"experiments"`
}

// Experiment is one named sweep.
type Experiment struct {
	Name       string  `yaml:"name"`
	UseCase    UseCase `yaml:"use_case"`
	Output     string  `yaml:"output"`
	Iterations int     `yaml:"iterations"`
	Warmups    int     `yaml:"warmups"`
	Args       Args    `yaml:"args"`
}

// Args holds the value lists whose cross product defines the combinations.
// An empty list contributes its default as the single value.
type Args struct {
	Regions       []int     `yaml:"regions"`
	RegionsOther  []int     `yaml:"regions_other"` // simulation: regions of the alternative catalogue
	ClientRegions []int     `yaml:"client_regions"`
	BatchSize     []int     `yaml:"batch_size"`
	Threads       []int     `yaml:"threads"`
	Precision     []string  `yaml:"precision"`
	DriftType     []string  `yaml:"drift_type"`
	Distribution  []string  `yaml:"distribution"`
	RandomPlanes  []bool    `yaml:"random_planes"`
	Seed          []int64   `yaml:"seed"`
	FractionA     []float64 `yaml:"fraction_a"`
	FractionB     []float64 `yaml:"fraction_b"`
	ChangeA       []float64 `yaml:"change_a"`
	ChangeB       []float64 `yaml:"change_b"`
	Confidence    []float64 `yaml:"confidence"`
}

// LoadFile reads and validates an experiments file with strict field checking
// (typos must cause errors).
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiments file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes and validates experiments YAML.
func ParseFile(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing experiments YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every experiment and rejects duplicate names and outputs.
func (f *File) Validate() error {
	if len(f.Experiments) == 0 {
		return fmt.Errorf("experiments file lists no experiments")
	}
	names := make(map[string]bool)
	outputs := make(map[string]bool)
	for i := range f.Experiments {
		e := &f.Experiments[i]
		if err := e.Validate(); err != nil {
			return fmt.Errorf("experiment %d (%s): %w", i, e.Name, err)
		}
		if names[e.Name] {
			return fmt.Errorf("duplicate experiment name %q", e.Name)
		}
		if outputs[e.Output] {
			return fmt.Errorf("experiments %q and another write the same output %q", e.Name, e.Output)
		}
		names[e.Name] = true
		outputs[e.Output] = true
	}
	return nil
}

// Validate checks fields and every argument value.
func (e *Experiment) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validUseCases[e.UseCase] {
		return fmt.Errorf("unknown use_case %q; valid: minimization, drift, simulation", e.UseCase)
	}
	if e.Output == "" {
		return fmt.Errorf("output is required")
	}
	if e.Iterations < 0 || e.Warmups < 0 {
		return fmt.Errorf("iterations and warmups must be non-negative, got %d and %d", e.Iterations, e.Warmups)
	}
	a := e.Args
	for _, group := range []struct {
		name   string
		values []int
		min    int
	}{
		{"regions", a.Regions, 2},
		{"regions_other", a.RegionsOther, 2},
		{"client_regions", a.ClientRegions, 1},
		{"batch_size", a.BatchSize, 1},
		{"threads", a.Threads, 0},
	} {
		for _, v := range group.values {
			if v < group.min {
				return fmt.Errorf("%s must be at least %d, got %d", group.name, group.min, v)
			}
		}
	}
	for _, p := range a.Precision {
		if _, err := oracle.ParsePrecision(p); err != nil {
			return err
		}
	}
	for _, d := range a.DriftType {
		if d != DriftDirected && d != DriftConservative {
			return fmt.Errorf("unknown drift_type %q; valid: directed, conservative", d)
		}
	}
	for _, d := range a.Distribution {
		if !synth.IsValidPointDistribution(d) {
			return fmt.Errorf("unknown distribution %q; valid: zero, uniform, exponential", d)
		}
	}
	for _, c := range a.Confidence {
		if !(c > 0 && c < 1) {
			return fmt.Errorf("confidence must be in (0, 1), got %v", c)
		}
	}
	for _, fa := range orDefault(a.FractionA, 0) {
		for _, fb := range orDefault(a.FractionB, 0) {
			for _, ca := range orDefault(a.ChangeA, 1) {
				for _, cb := range orDefault(a.ChangeB, 1) {
					change := synth.PriceChange{FractionA: fa, FractionB: fb, ChangeA: ca, ChangeB: cb}
					if err := change.Validate(); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func orDefault[T any](values []T, def T) []T {
	if len(values) == 0 {
		return []T{def}
	}
	return values
}
