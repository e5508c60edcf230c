// Package model loads and evaluates the optional trained spillover model.
// The artifact is produced by an offline training run; this package only
// performs frozen forward passes. A missing artifact is a normal state the
// engine runs without, not an error condition.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrNoArtifact reports that no model artifact exists at the configured
// path. Callers treat this as "run heuristic-only".
var ErrNoArtifact = errors.New("no model artifact")

// ErrUnsupportedNode reports a country absent from the artifact's node
// index. The model path refuses such nodes rather than guessing.
var ErrUnsupportedNode = errors.New("country not covered by model")

// Parameters is a validated, immutable set of trained weights plus the
// dimension config and node index the training run emitted.
type Parameters struct {
	InputDim  int `json:"input_dim"`
	HiddenDim int `json:"hidden_dim"`
	OutputDim int `json:"output_dim"`

	// NodeIndex maps ISO3 codes to the stable integer ids used during
	// training. A country missing here cannot use the model path.
	NodeIndex map[string]int `json:"node_index"`

	// Layer weights. W1 consumes self features ++ neighbor aggregate ++
	// funding delta (2*InputDim+1 inputs); WOut emits OutputDim values.
	W1   [][]float64 `json:"w1"`
	B1   []float64   `json:"b1"`
	W2   [][]float64 `json:"w2"`
	B2   []float64   `json:"b2"`
	WOut [][]float64 `json:"w_out"`
	BOut []float64   `json:"b_out"`
}

// LoadParameters reads and validates a model artifact from path.
// A missing file yields ErrNoArtifact; a present-but-invalid file is a
// real error so corruption is never silently treated as absence.
func LoadParameters(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoArtifact, path)
		}
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing model artifact %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return &p, nil
}

// Validate checks declared dimensions against tensor shapes and rejects
// non-finite weights.
func (p *Parameters) Validate() error {
	if p.InputDim <= 0 || p.HiddenDim <= 0 {
		return fmt.Errorf("invalid dimensions: input_dim=%d hidden_dim=%d", p.InputDim, p.HiddenDim)
	}
	if p.OutputDim != 2 {
		return fmt.Errorf("output_dim must be 2 (delta severity, delta displaced), got %d", p.OutputDim)
	}
	if len(p.NodeIndex) == 0 {
		return errors.New("node_index is empty")
	}

	inWidth := 2*p.InputDim + 1
	if err := checkMatrix("w1", p.W1, p.HiddenDim, inWidth); err != nil {
		return err
	}
	if err := checkVector("b1", p.B1, p.HiddenDim); err != nil {
		return err
	}
	if err := checkMatrix("w2", p.W2, p.HiddenDim, p.HiddenDim); err != nil {
		return err
	}
	if err := checkVector("b2", p.B2, p.HiddenDim); err != nil {
		return err
	}
	if err := checkMatrix("w_out", p.WOut, p.OutputDim, p.HiddenDim); err != nil {
		return err
	}
	if err := checkVector("b_out", p.BOut, p.OutputDim); err != nil {
		return err
	}
	return nil
}

// Supports reports whether the artifact covers the given country.
func (p *Parameters) Supports(country string) bool {
	_, ok := p.NodeIndex[country]
	return ok
}

func checkMatrix(name string, m [][]float64, rows, cols int) error {
	if len(m) != rows {
		return fmt.Errorf("%s: expected %d rows, got %d", name, rows, len(m))
	}
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("%s: row %d has %d columns, expected %d", name, i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s[%d][%d]: non-finite weight", name, i, j)
			}
		}
	}
	return nil
}

func checkVector(name string, v []float64, size int) error {
	if len(v) != size {
		return fmt.Errorf("%s: expected %d values, got %d", name, size, len(v))
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s[%d]: non-finite value", name, i)
		}
	}
	return nil
}
