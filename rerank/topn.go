package rerank

import (
	"context"
	"sort"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/pipeline"
)

// TopN 是重排 Node：按分数降序稳定排序后截断到 N。
// N <= 0 时只排序不截断。
type TopN struct {
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	limit := n.N
	if limit <= 0 {
		return items, nil
	}
	// 分页超采：至少保留 page*page_size 供切片
	if need := rctx.Page * rctx.PageSize; need > limit {
		limit = need
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
