package rerank

import (
	"context"
	"testing"

	"github.com/empowerverse/feedkit/core"
)

func scored(pairs ...float64) []*core.Item {
	out := make([]*core.Item, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		it := core.NewItem(int64(pairs[i]))
		it.Score = pairs[i+1]
		out = append(out, it)
	}
	return out
}

func TestTopN_SortsDescendingAndTruncates(t *testing.T) {
	node := &TopN{N: 2}

	out, err := node.Process(context.Background(),
		&core.RecommendContext{Page: 1, PageSize: 2},
		scored(1, 0.2, 2, 0.9, 3, 0.5))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].ID != 2 || out[1].ID != 3 {
		t.Errorf("order = [%d %d], want [2 3]", out[0].ID, out[1].ID)
	}
}

func TestTopN_KeepsEnoughForPagination(t *testing.T) {
	node := &TopN{N: 2}

	// page 3 * size 2 = 6 > N，截断让位于分页需求
	out, err := node.Process(context.Background(),
		&core.RecommendContext{Page: 3, PageSize: 2},
		scored(1, 0.1, 2, 0.2, 3, 0.3, 4, 0.4, 5, 0.5))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 5 {
		t.Errorf("len(out) = %d, want 5 (no truncation below page*size)", len(out))
	}
}

func TestTopN_StableOnTies(t *testing.T) {
	node := &TopN{}

	out, err := node.Process(context.Background(),
		&core.RecommendContext{},
		scored(7, 0.5, 3, 0.5, 5, 0.5))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := []int64{7, 3, 5}
	for i, w := range want {
		if out[i].ID != w {
			t.Errorf("out[%d].ID = %d, want %d (stable tie order)", i, out[i].ID, w)
		}
	}
}
