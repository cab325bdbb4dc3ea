package feature

import (
	"math"
	"reflect"
	"testing"

	"github.com/empowerverse/feedkit/core"
)

func TestFitProjection_PreservesPrincipalAxis(t *testing.T) {
	// 方差几乎全部在第一维
	samples := [][]float64{
		{0, 0.1},
		{2, 0},
		{4, 0.1},
		{6, 0},
	}
	proj, err := FitProjection(samples, 1)
	if err != nil {
		t.Fatalf("FitProjection() error = %v", err)
	}

	out := make([]float64, len(samples))
	for i, s := range samples {
		vec, err := proj.Transform(s)
		if err != nil {
			t.Fatalf("Transform() error = %v", err)
		}
		out[i] = vec[0]
	}

	// 主成分符号不定，比较相邻间距的绝对值
	for i := 1; i < len(out); i++ {
		gap := math.Abs(out[i] - out[i-1])
		if math.Abs(gap-2) > 0.2 {
			t.Errorf("gap between samples %d and %d = %v, want ~2", i-1, i, gap)
		}
	}
}

func TestFitProjection_PadsMissingComponents(t *testing.T) {
	// 2 个样本最多 2 个主成分，第 3 维输出恒为 0
	samples := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
	}
	proj, err := FitProjection(samples, 3)
	if err != nil {
		t.Fatalf("FitProjection() error = %v", err)
	}

	vec, err := proj.Transform([]float64{5, 3, 1})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("len(vec) = %d, want 3", len(vec))
	}
	if vec[2] != 0 {
		t.Errorf("vec[2] = %v, want 0 (no third component available)", vec[2])
	}
}

func TestFitProjection_Deterministic(t *testing.T) {
	samples := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 10},
	}
	proj, err := FitProjection(samples, 2)
	if err != nil {
		t.Fatalf("FitProjection() error = %v", err)
	}

	first, err := proj.Transform(samples[0])
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	second, err := proj.Transform(samples[0])
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Transform differs: %v vs %v", first, second)
	}
}

func TestFitProjection_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		samples [][]float64
		outDim  int
	}{
		{name: "no samples", samples: nil, outDim: 2},
		{name: "out dim too large", samples: [][]float64{{1, 2}}, outDim: 3},
		{name: "out dim zero", samples: [][]float64{{1, 2}}, outDim: 0},
		{name: "width mismatch", samples: [][]float64{{1, 2}, {1}}, outDim: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FitProjection(tt.samples, tt.outDim); !core.IsInvalidInput(err) {
				t.Errorf("FitProjection() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestProjection_TransformDimensionMismatch(t *testing.T) {
	proj, err := FitProjection([][]float64{{1, 2}, {3, 4}}, 1)
	if err != nil {
		t.Fatalf("FitProjection() error = %v", err)
	}
	if _, err := proj.Transform([]float64{1, 2, 3}); !core.IsInvalidInput(err) {
		t.Errorf("Transform() error = %v, want INVALID_INPUT", err)
	}
}
