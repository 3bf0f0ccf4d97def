package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Catalogue is the on-disk plane catalogue. Row i of Planes holds
// [c0, c1, ..., cd] for policy Names[i].
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Catalogue struct {
	Version   string      `yaml:"version"`
	Precision string      `yaml:"precision,omitempty"`
	Names     []string    `yaml:"names,omitempty"`
	Planes    [][]float64 `yaml:"planes"`
}

// LoadCatalogue reads a plane catalogue with strict field checking.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalogue: %w", err)
	}
	var c Catalogue
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing catalogue %s: %w", path, err)
	}
	if len(c.Names) > 0 && len(c.Names) != len(c.Planes) {
		return nil, fmt.Errorf("catalogue %s names %d policies but holds %d planes", path, len(c.Names), len(c.Planes))
	}
	return &c, nil
}

// Name returns the policy name of plane i, or its index when unnamed.
func (c *Catalogue) Name(i int) string {
	if i >= 0 && i < len(c.Names) {
		return c.Names[i]
	}
	return fmt.Sprintf("plane-%d", i)
}

// WriteCatalogue encodes c as YAML.
func WriteCatalogue(w io.Writer, c *Catalogue) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding catalogue: %w", err)
	}
	return enc.Close()
}

// LoadPoints reads a CSV workload file, one point per row. A first row that
// does not parse as numbers is treated as a header.
func LoadPoints(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening points: %w", err)
	}
	defer f.Close()
	return ReadPoints(f)
}

// ReadPoints is LoadPoints over a reader.
func ReadPoints(r io.Reader) (*mat.Dense, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading points CSV: %w", err)
	}
	if len(records) > 0 {
		if _, err := parseRow(records[0]); err != nil {
			records = records[1:]
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("points CSV holds no rows")
	}

	dim := len(records[0])
	data := make([]float64, 0, len(records)*dim)
	for i, rec := range records {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("points row %d: %w", i, err)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(records), dim, data), nil
}

func parseRow(rec []string) ([]float64, error) {
	row := make([]float64, len(rec))
	for k, field := range rec {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", k, err)
		}
		row[k] = v
	}
	return row, nil
}

// WritePoints writes m as CSV with a header x1..xd.
func WritePoints(w io.Writer, m mat.Matrix) error {
	rows, cols := m.Dims()
	cw := csv.NewWriter(w)
	header := make([]string, cols)
	for k := range header {
		header[k] = "x" + strconv.Itoa(k+1)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, cols)
	for b := 0; b < rows; b++ {
		for k := range rec {
			rec[k] = strconv.FormatFloat(m.At(b, k), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
