package model

import (
	"fmt"
	"math"
)

// Prediction is one node's predicted per-step change.
type Prediction struct {
	DeltaSeverity float64

	// DeltaDisplacedNorm is normalized displacement change; the caller
	// scales it by the node's population in need.
	DeltaDisplacedNorm float64
}

// Forward runs a single frozen forward pass for one node.
//
// features holds the node's baseline feature vector and is zero-padded or
// truncated to InputDim. neighborAgg is the aggregate of the node's
// neighbors' current perturbation state, treated the same way.
// deltaFunding is the funding stress currently carried at this node.
//
// The architecture mirrors the trained network: two hidden linear layers
// with ReLU, then a linear output layer.
func (p *Parameters) Forward(country string, features, neighborAgg []float64, deltaFunding float64) (Prediction, error) {
	if !p.Supports(country) {
		return Prediction{}, fmt.Errorf("%w: %s", ErrUnsupportedNode, country)
	}

	in := make([]float64, 0, 2*p.InputDim+1)
	in = append(in, fit(features, p.InputDim)...)
	in = append(in, fit(neighborAgg, p.InputDim)...)
	in = append(in, deltaFunding)

	h := relu(affine(p.W1, p.B1, in))
	h = relu(affine(p.W2, p.B2, h))
	out := affine(p.WOut, p.BOut, h)

	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Prediction{}, fmt.Errorf("model forward for %s produced non-finite output", country)
		}
	}

	return Prediction{
		DeltaSeverity:      out[0],
		DeltaDisplacedNorm: out[1],
	}, nil
}

// fit zero-pads or truncates v to length n.
func fit(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}

// affine computes w*x + b.
func affine(w [][]float64, b []float64, x []float64) []float64 {
	out := make([]float64, len(w))
	for i, row := range w {
		sum := b[i]
		for j, wij := range row {
			sum += wij * x[j]
		}
		out[i] = sum
	}
	return out
}

func relu(v []float64) []float64 {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
	return v
}
