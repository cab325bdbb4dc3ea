package rerank

import (
	"context"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/filter"
	"github.com/empowerverse/feedkit/pipeline"
	"github.com/empowerverse/feedkit/pkg/utils"
	"github.com/empowerverse/feedkit/recall"
)

// Backfill 是补位 Node：结果不足一页覆盖量时，从热度召回源补齐。
//
// 补位候选同样跳过用户已交互内容和已有候选，
// 保证暖路径和冷路径共享同一套补位语义。
type Backfill struct {
	Source recall.Source
	Seen   filter.SeenStore
}

func NewBackfill(source recall.Source, seen filter.SeenStore) *Backfill {
	return &Backfill{Source: source, Seen: seen}
}

func (n *Backfill) Name() string        { return "rerank.backfill" }
func (n *Backfill) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Backfill) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	target := rctx.Page * rctx.PageSize
	if target <= 0 || len(items) >= target || n.Source == nil {
		return items, nil
	}

	candidates, err := n.Source.Recall(ctx, rctx)
	if err != nil {
		// 补位失败不影响已有结果
		return items, nil
	}

	var seen map[int64]struct{}
	if n.Seen != nil && rctx.UserID > 0 {
		if s, err := n.Seen.SeenPosts(ctx, rctx.UserID); err == nil {
			seen = s
		}
	}

	present := make(map[int64]struct{}, len(items))
	for _, it := range items {
		present[it.ID] = struct{}{}
	}

	for _, cand := range candidates {
		if len(items) >= target {
			break
		}
		if cand == nil {
			continue
		}
		if _, ok := present[cand.ID]; ok {
			continue
		}
		if _, ok := seen[cand.ID]; ok {
			continue
		}
		cand.PutLabel("backfill", utils.Label{Value: "true", Source: n.Name()})
		present[cand.ID] = struct{}{}
		items = append(items, cand)
	}
	return items, nil
}
