package factorize

import (
	"context"
	"math"
	"testing"

	"github.com/empowerverse/feedkit/core"
)

func smallMatrix(t *testing.T) *InteractionMatrix {
	t.Helper()
	m, err := BuildMatrix([]core.Interaction{
		{UserID: 1, PostID: 10, Kind: core.InteractionLike},
		{UserID: 1, PostID: 20, Kind: core.InteractionRating, RatingPercent: 90},
		{UserID: 2, PostID: 20, Kind: core.InteractionLike},
		{UserID: 2, PostID: 30, Kind: core.InteractionInspire},
		{UserID: 3, PostID: 10, Kind: core.InteractionLike},
	})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	return m
}

func testOptions() ALSOptions {
	return ALSOptions{
		Factors:        8,
		Regularization: 0.01,
		Iterations:     5,
		Alpha:          15,
		Seed:           42,
	}
}

func TestRunALS_OutputShape(t *testing.T) {
	m := smallMatrix(t)

	fact, err := RunALS(context.Background(), m, testOptions())
	if err != nil {
		t.Fatalf("RunALS() error = %v", err)
	}

	if got, want := len(fact.UserFactors), m.Rows(); got != want {
		t.Errorf("len(UserFactors) = %d, want %d", got, want)
	}
	if got, want := len(fact.PostFactors), m.Cols(); got != want {
		t.Errorf("len(PostFactors) = %d, want %d", got, want)
	}
	for id, vec := range fact.UserFactors {
		if len(vec) != 8 {
			t.Fatalf("user %d factor dim = %d, want 8", id, len(vec))
		}
	}
}

func TestRunALS_FactorsAreUnitNorm(t *testing.T) {
	fact, err := RunALS(context.Background(), smallMatrix(t), testOptions())
	if err != nil {
		t.Fatalf("RunALS() error = %v", err)
	}

	checkNorm := func(kind string, factors map[int64][]float64) {
		for id, vec := range factors {
			var norm float64
			for _, v := range vec {
				norm += v * v
			}
			norm = math.Sqrt(norm)
			if math.Abs(norm-1.0) > 1e-6 {
				t.Errorf("%s %d factor norm = %v, want 1.0", kind, id, norm)
			}
		}
	}
	checkNorm("user", fact.UserFactors)
	checkNorm("post", fact.PostFactors)
}

func TestRunALS_PreferenceSignal(t *testing.T) {
	fact, err := RunALS(context.Background(), smallMatrix(t), testOptions())
	if err != nil {
		t.Fatalf("RunALS() error = %v", err)
	}

	dot := func(a, b []float64) float64 {
		var sum float64
		for i := range a {
			sum += a[i] * b[i]
		}
		return sum
	}

	// 用户 1 互动过 post 10/20，没碰过 post 30
	u := fact.UserFactors[1]
	interacted := dot(u, fact.PostFactors[10])
	untouched := dot(u, fact.PostFactors[30])
	if interacted <= untouched {
		t.Errorf("interacted affinity %v should exceed untouched %v", interacted, untouched)
	}
}

func TestRunALS_NilMatrix(t *testing.T) {
	if _, err := RunALS(context.Background(), nil, testOptions()); !core.IsEmptyMatrix(err) {
		t.Errorf("RunALS(nil) error = %v, want EMPTY_MATRIX", err)
	}
}

func TestRunALS_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunALS(ctx, smallMatrix(t), testOptions()); err == nil {
		t.Error("RunALS() with cancelled context should fail")
	}
}
