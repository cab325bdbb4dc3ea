package model

import (
	"math"
	"reflect"
	"testing"
)

func TestHashVector_Deterministic(t *testing.T) {
	a := HashVector("wellness", 16)
	b := HashVector("wellness", 16)
	if !reflect.DeepEqual(a, b) {
		t.Error("HashVector must be deterministic for the same seed")
	}

	c := HashVector("startup", 16)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should produce different vectors")
	}
}

func TestHashVector_UnitNorm(t *testing.T) {
	vec := HashVector("anything", 32)
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("norm = %v, want 1.0", math.Sqrt(norm))
	}
}

func TestTextEncoder_EncodeText(t *testing.T) {
	enc := NewTextEncoder(nil, 16)

	empty := enc.EncodeText("   ")
	for _, v := range empty {
		if v != 0 {
			t.Fatal("empty text must encode to zero vector")
		}
	}

	a := enc.EncodeText("calm morning routine")
	b := enc.EncodeText("calm morning routine")
	if !reflect.DeepEqual(a, b) {
		t.Error("encoding must be deterministic")
	}

	// 大小写归一
	c := enc.EncodeText("CALM MORNING ROUTINE")
	if !reflect.DeepEqual(a, c) {
		t.Error("encoding must be case-insensitive")
	}
}

func TestTextEncoder_PretrainedLookup(t *testing.T) {
	enc := NewTextEncoder(map[string][]float64{
		"calm": {1, 0},
	}, 2)

	got := enc.EncodeText("calm")
	if !reflect.DeepEqual(got, []float64{1, 0}) {
		t.Errorf("EncodeText(calm) = %v, want pretrained vector", got)
	}
}

func TestTextEncoder_Similarity(t *testing.T) {
	enc := NewTextEncoder(nil, 2)
	if got := enc.Similarity([]float64{1, 0}, []float64{1, 0}); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Similarity(identical) = %v, want 1.0", got)
	}
	if got := enc.Similarity([]float64{1, 0}, []float64{0, 1}); math.Abs(got) > 1e-9 {
		t.Errorf("Similarity(orthogonal) = %v, want 0", got)
	}
	if got := enc.Similarity([]float64{1, 0}, []float64{1, 0, 0}); got != 0 {
		t.Errorf("Similarity(dim mismatch) = %v, want 0", got)
	}
}

func TestMLPModel_PredictRange(t *testing.T) {
	m := NewMLPModel([]int{4, 3, 1})

	score, err := m.Predict([]float64{0.1, 0.5, -0.3, 0.9})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if score < 0 || score > 1 {
		t.Errorf("Predict() = %v, want within [0,1]", score)
	}

	if _, err := m.Predict([]float64{1, 2}); err == nil {
		t.Error("Predict() with wrong input dim should fail")
	}
}

func TestMLPModel_SetLayer(t *testing.T) {
	m := NewMLPModel([]int{2, 1})
	if err := m.SetLayer(0, [][]float64{{100, 100}}, []float64{0}); err != nil {
		t.Fatalf("SetLayer() error = %v", err)
	}

	score, err := m.Predict([]float64{1, 1})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if score < 0.99 {
		t.Errorf("Predict() = %v, want saturated sigmoid near 1", score)
	}

	if err := m.SetLayer(5, nil, nil); err == nil {
		t.Error("SetLayer() out of range should fail")
	}
}
