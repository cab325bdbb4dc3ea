package feature

import (
	"math"
	"testing"

	"github.com/empowerverse/feedkit/core"
)

func TestFitScaler(t *testing.T) {
	rows := [][]float64{
		{0, 10, 5},
		{100, 20, 5},
		{50, 15, 5},
	}
	scaler, err := FitScaler(rows)
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}

	got := scaler.Transform([]float64{50, 10, 5})
	want := []float64{0.5, 0, 0} // 常数列输出 0
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Transform()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFitScaler_EmptyInput(t *testing.T) {
	if _, err := FitScaler(nil); !core.IsInvalidInput(err) {
		t.Errorf("FitScaler(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestFitScaler_RowWidthMismatch(t *testing.T) {
	_, err := FitScaler([][]float64{{1, 2}, {1}})
	if !core.IsInvalidInput(err) {
		t.Errorf("FitScaler() error = %v, want INVALID_INPUT", err)
	}
}
