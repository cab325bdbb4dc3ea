package recall

import (
	"context"
	"strconv"
	"testing"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/store"
)

func TestHot_Recall(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()

	// 热度分对应 0.1*views + 0.3*upvotes + 0.2*rating + 0.4*shares
	posts := []core.Post{
		{ID: 1, ViewCount: 100, UpvoteCount: 10, AverageRating: 50, ShareCount: 1},  // 23.4
		{ID: 2, ViewCount: 10, UpvoteCount: 100, AverageRating: 90, ShareCount: 50}, // 69.0
		{ID: 3, ViewCount: 1000, UpvoteCount: 0, AverageRating: 0, ShareCount: 0},   // 100.0
	}
	for i := range posts {
		member := strconv.FormatInt(posts[i].ID, 10)
		if err := kv.ZAdd(ctx, HotKey, posts[i].PopularityScore(), member); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	src := NewHot(kv, 10)
	items, err := src.Recall(ctx, &core.RecommendContext{Page: 1, PageSize: 3})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	wantOrder := []int64{3, 2, 1}
	if len(items) != len(wantOrder) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(wantOrder))
	}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}
	if items[0].Score <= items[1].Score {
		t.Errorf("scores should be descending: %v vs %v", items[0].Score, items[1].Score)
	}
}

func TestHot_OverfetchForPagination(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()

	for i := int64(1); i <= 50; i++ {
		if err := kv.ZAdd(ctx, HotKey, float64(i), strconv.FormatInt(i, 10)); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	src := NewHot(kv, 5)
	items, err := src.Recall(ctx, &core.RecommendContext{Page: 3, PageSize: 5})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// page*page_size*2 = 30 超过 TopK=5
	if len(items) != 30 {
		t.Errorf("len(items) = %d, want 30 (overfetch page*size*2)", len(items))
	}
}
