package model

import (
	"errors"
	"math"
	"testing"
)

func TestForward(t *testing.T) {
	p := testParameters()

	pred, err := p.Forward("BFA", []float64{1, 0.5}, []float64{0.2, 0.1}, -0.2)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if math.IsNaN(pred.DeltaSeverity) || math.IsNaN(pred.DeltaDisplacedNorm) {
		t.Error("prediction contains NaN")
	}

	// Hand-computed: in = [1, 0.5, 0.2, 0.1, -0.2]
	// h1[0] = relu(0.1*(1+0.5+0.2+0.1-0.2)) = 0.16
	// h1[1] = relu(0.2*1 - 0.2*(-0.2))      = 0.24
	// w2 is identity, out[0] = 0.5*(0.16+0.24) = 0.2
	// out[1] = 0.1*(0.16+0.24) = 0.04
	if math.Abs(pred.DeltaSeverity-0.2) > 1e-9 {
		t.Errorf("DeltaSeverity = %v, want 0.2", pred.DeltaSeverity)
	}
	if math.Abs(pred.DeltaDisplacedNorm-0.04) > 1e-9 {
		t.Errorf("DeltaDisplacedNorm = %v, want 0.04", pred.DeltaDisplacedNorm)
	}
}

func TestForward_UnsupportedCountry(t *testing.T) {
	p := testParameters()

	_, err := p.Forward("XXX", []float64{1, 1}, []float64{0, 0}, 0)
	if !errors.Is(err, ErrUnsupportedNode) {
		t.Errorf("expected ErrUnsupportedNode, got %v", err)
	}
}

func TestForward_PadsAndTruncatesFeatures(t *testing.T) {
	p := testParameters()

	// Short vector is zero-padded; long vector is truncated. Padding a
	// short vector with an explicit zero must give the same output.
	short, err := p.Forward("BFA", []float64{1}, []float64{0.2}, -0.1)
	if err != nil {
		t.Fatalf("Forward short: %v", err)
	}
	padded, err := p.Forward("BFA", []float64{1, 0}, []float64{0.2, 0}, -0.1)
	if err != nil {
		t.Fatalf("Forward padded: %v", err)
	}
	if short != padded {
		t.Errorf("padding mismatch: %+v vs %+v", short, padded)
	}

	long, err := p.Forward("BFA", []float64{1, 0, 99, 99}, []float64{0.2, 0, 99}, -0.1)
	if err != nil {
		t.Fatalf("Forward long: %v", err)
	}
	if long != padded {
		t.Errorf("truncation mismatch: %+v vs %+v", long, padded)
	}
}

func TestForward_Deterministic(t *testing.T) {
	p := testParameters()

	first, err := p.Forward("MLI", []float64{3.2, 0.5}, []float64{0.8, 0.1}, -0.3)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := p.Forward("MLI", []float64{3.2, 0.5}, []float64{0.8, 0.1}, -0.3)
		if err != nil {
			t.Fatalf("Forward: %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}
