package recall

import (
	"context"

	"github.com/empowerverse/feedkit/core"
)

// Hybrid 是暖路径的向量召回源：
// 用请求用户的融合向量在融合索引上做内积检索。
//
// TopK 是召回截断（调用方通常按 page*page_size*2 超采，
// 给下游 seen 过滤留出余量）。
type Hybrid struct {
	Provider SnapshotProvider
	TopK     int
}

func NewHybrid(provider SnapshotProvider, topK int) *Hybrid {
	if topK <= 0 {
		topK = 100
	}
	return &Hybrid{Provider: provider, TopK: topK}
}

func (s *Hybrid) Name() string { return "hybrid" }

func (s *Hybrid) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	snap, err := s.Provider.Snapshot()
	if err != nil {
		return nil, err
	}

	query, ok := snap.UserVector(rctx.UserID)
	if !ok {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeStaleData,
			"recall: user vector missing from snapshot")
	}

	topK := s.TopK
	if overfetch := rctx.Page * rctx.PageSize * 2; overfetch > topK {
		topK = overfetch
	}

	matches, err := snap.HybridIndex().Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	items := make([]*core.Item, 0, len(matches))
	for _, m := range matches {
		it := core.NewItem(m.ID)
		it.Score = m.Score
		items = append(items, it)
	}
	return items, nil
}
