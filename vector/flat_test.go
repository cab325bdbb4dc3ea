package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/empowerverse/feedkit/core"
)

func TestFlatIndex_SearchOrdering(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: {0.5, 0.5},
		3: {0, 1},
	}
	idx := Build(vectors, []int64{1, 2, 3})

	matches, err := idx.Search(context.Background(), []float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	wantIDs := []int64{1, 2, 3}
	for i, want := range wantIDs {
		if matches[i].ID != want {
			t.Errorf("matches[%d].ID = %d, want %d", i, matches[i].ID, want)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("scores not descending: %v", matches)
		}
	}
}

func TestFlatIndex_StableTies(t *testing.T) {
	// 与查询正交的向量内积全为 0，平分时按插入顺序排
	vectors := map[int64][]float64{
		7: {0, 1},
		3: {0, 1},
		5: {0, 1},
	}
	idx := Build(vectors, []int64{7, 3, 5})

	matches, err := idx.Search(context.Background(), []float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	wantIDs := []int64{7, 3, 5}
	for i, want := range wantIDs {
		if matches[i].ID != want {
			t.Errorf("matches[%d].ID = %d, want %d (insertion order on ties)", i, matches[i].ID, want)
		}
	}
}

func TestFlatIndex_TopKTruncation(t *testing.T) {
	vectors := map[int64][]float64{1: {1, 0}, 2: {0, 1}, 3: {1, 1}}
	idx := Build(vectors, []int64{1, 2, 3})

	matches, err := idx.Search(context.Background(), []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("len(matches) = %d, want 2", len(matches))
	}
}

func TestFlatIndex_EmptyIndex(t *testing.T) {
	idx := Build(nil, nil)
	_, err := idx.Search(context.Background(), []float64{1}, 5)
	if !errors.Is(err, core.ErrIndexEmpty) && !core.IsStaleData(err) {
		t.Errorf("Search() on empty index error = %v, want ErrIndexEmpty", err)
	}
}

func TestFlatIndex_DimensionMismatch(t *testing.T) {
	idx := Build(map[int64][]float64{1: {1, 0}}, []int64{1})
	_, err := idx.Search(context.Background(), []float64{1, 0, 0}, 5)
	if !core.IsInvalidInput(err) {
		t.Errorf("Search() error = %v, want INVALID_INPUT", err)
	}
}

func TestBuild_SkipsMismatchedVectors(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: {1, 0, 0}, // 维度不符，被跳过
		3: nil,       // 缺向量，被跳过
	}
	idx := Build(vectors, []int64{1, 2, 3})
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}
