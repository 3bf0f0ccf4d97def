package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogue(t *testing.T) {
	cat, err := LoadCatalogue(writeFile(t, "planes.yaml", singleSlopeCatalogue))
	require.NoError(t, err)

	assert.Equal(t, "float64", cat.Precision)
	assert.Equal(t, [][]float64{{0, 1, 0}, {0, 0, 1}, {0, 1, 1}}, cat.Planes)
	assert.Equal(t, "west", cat.Name(1))
}

func TestLoadCatalogue_UnnamedPlanes(t *testing.T) {
	cat, err := LoadCatalogue(writeFile(t, "planes.yaml", interceptCatalogue))
	require.NoError(t, err)
	assert.Equal(t, "plane-2", cat.Name(2))
	assert.Equal(t, "plane-7", cat.Name(7))
}

func TestLoadCatalogue_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			// GIVEN a typo in a top-level key, strict parsing must reject it
			name:    "unknown field",
			content: "version: \"1\"\nplane:\n  - [0, 1]\n",
			wantErr: "plane",
		},
		{
			name:    "names and planes disagree",
			content: "names: [a]\nplanes:\n  - [0, 1]\n  - [1, 0]\n",
			wantErr: "names 1 policies but holds 2 planes",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCatalogue(writeFile(t, "planes.yaml", tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestWriteCatalogue_LoadsBack(t *testing.T) {
	want := &Catalogue{Version: "1", Precision: "float32", Names: []string{"a", "b"}, Planes: [][]float64{{0.5, 1}, {2, 0.25}}}
	var buf bytes.Buffer
	require.NoError(t, WriteCatalogue(&buf, want))

	got, err := LoadCatalogue(writeFile(t, "planes.yaml", buf.String()))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadPoints(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantRows int
		wantCols int
		wantErr  bool
	}{
		{name: "header", content: "x1,x2\n3,5\n5,3\n", wantRows: 2, wantCols: 2},
		{name: "no header", content: "3,5\n5,3\n0,0\n", wantRows: 3, wantCols: 2},
		{name: "only header", content: "x1,x2\n", wantErr: true},
		{name: "empty", content: "", wantErr: true},
		{name: "bad value", content: "x1,x2\n3,five\n", wantErr: true},
		{name: "ragged rows", content: "1,2\n3\n", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ReadPoints(strings.NewReader(tc.content))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			r, c := m.Dims()
			assert.Equal(t, tc.wantRows, r)
			assert.Equal(t, tc.wantCols, c)
		})
	}
}

func TestWritePoints_ReadsBack(t *testing.T) {
	m, err := ReadPoints(strings.NewReader("1.5,2\n0,1e-3\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, m))
	assert.Equal(t, "x1,x2\n1.5,2\n0,0.001\n", buf.String())
}
