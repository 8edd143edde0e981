package embedding

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{name: "simple", input: []float32{3, 4}},
		{name: "already unit", input: []float32{1, 0, 0}},
		{name: "negative components", input: []float32{-2, 2, -2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeVector(tt.input)

			var magnitude float64
			for _, v := range got {
				magnitude += float64(v) * float64(v)
			}
			magnitude = math.Sqrt(magnitude)

			if math.Abs(magnitude-1.0) > 1e-6 {
				t.Errorf("magnitude = %f, want 1.0", magnitude)
			}
		})
	}
}

func TestNormalizeVectorZero(t *testing.T) {
	got := normalizeVector([]float32{0, 0, 0})
	for i, v := range got {
		if v != 0 {
			t.Errorf("component %d = %f, want 0 (zero vector must pass through)", i, v)
		}
	}
}
