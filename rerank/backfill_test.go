package rerank

import (
	"context"
	"testing"

	"github.com/empowerverse/feedkit/core"
)

type fakeSource struct {
	items []*core.Item
}

func (s *fakeSource) Name() string { return "fake_hot" }
func (s *fakeSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	return s.items, nil
}

type fakeSeenStore struct {
	seen map[int64]struct{}
}

func (f *fakeSeenStore) SeenPosts(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	return f.seen, nil
}

func TestBackfill_TopsUpToTarget(t *testing.T) {
	hot := &fakeSource{items: scored(10, 5, 11, 4, 12, 3, 13, 2)}
	node := NewBackfill(hot, nil)

	out, err := node.Process(context.Background(),
		&core.RecommendContext{Page: 1, PageSize: 4},
		scored(1, 0.9, 2, 0.8))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	// 原有候选在前，补位候选按热度序在后
	wantOrder := []int64{1, 2, 10, 11}
	for i, want := range wantOrder {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, want)
		}
	}
	if _, ok := out[2].GetLabel("backfill"); !ok {
		t.Error("backfilled item should carry the backfill label")
	}
}

func TestBackfill_SkipsDuplicatesAndSeen(t *testing.T) {
	hot := &fakeSource{items: scored(1, 5, 20, 4, 21, 3)}
	node := NewBackfill(hot, &fakeSeenStore{seen: map[int64]struct{}{20: {}}})

	out, err := node.Process(context.Background(),
		&core.RecommendContext{UserID: 42, Page: 1, PageSize: 3},
		scored(1, 0.9))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// 1 重复、20 已看过，只能补 21
	wantOrder := []int64{1, 21}
	if len(out) != len(wantOrder) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(wantOrder))
	}
	for i, want := range wantOrder {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, want)
		}
	}
}

func TestBackfill_NoopWhenFull(t *testing.T) {
	hot := &fakeSource{items: scored(10, 5)}
	node := NewBackfill(hot, nil)

	in := scored(1, 0.9, 2, 0.8)
	out, err := node.Process(context.Background(),
		&core.RecommendContext{Page: 1, PageSize: 2}, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("len(out) = %d, want 2 (already full)", len(out))
	}
}
