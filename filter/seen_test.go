package filter

import (
	"context"
	"testing"

	"github.com/empowerverse/feedkit/core"
)

type fakeSeenStore struct {
	seen map[int64]struct{}
}

func (f *fakeSeenStore) SeenPosts(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	return f.seen, nil
}

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, len(ids))
	for i, id := range ids {
		out[i] = core.NewItem(id)
	}
	return out
}

func collectIDs(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSeenNode_DropsAllSeenPosts(t *testing.T) {
	node := NewSeenNode(&fakeSeenStore{seen: map[int64]struct{}{1: {}, 3: {}}})

	out, err := node.Process(context.Background(),
		&core.RecommendContext{UserID: 42}, items(1, 2, 3, 4))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	got := collectIDs(out)
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("remaining ids = %v, want [2 4]", got)
	}
}

func TestSeenNode_ColdRequestPassesThrough(t *testing.T) {
	node := NewSeenNode(&fakeSeenStore{seen: map[int64]struct{}{1: {}}})

	in := items(1, 2)
	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 0}, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != len(in) {
		t.Errorf("cold request should pass through, got %d items", len(out))
	}
}

func TestSeenNode_EmptySeenSet(t *testing.T) {
	node := NewSeenNode(&fakeSeenStore{})

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 42}, items(1, 2))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("len(out) = %d, want 2", len(out))
	}
}
