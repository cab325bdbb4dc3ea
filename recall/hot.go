package recall

import (
	"context"
	"strconv"

	"github.com/empowerverse/feedkit/core"
)

// HotKey 是热度榜在 KeyValueStore 中的 ZSet key。
// 构建快照时由 engine 以综合热度分全量写入。
const HotKey = "feedkit:hot:posts"

// Hot 是热度召回源：从 ZSet 热度榜按分数降序取 TopK。
// 冷路径的兜底召回，也用于暖路径结果不足时的补位来源。
type Hot struct {
	Store core.KeyValueStore
	Key   string
	TopK  int
}

func NewHot(store core.KeyValueStore, topK int) *Hot {
	if topK <= 0 {
		topK = 100
	}
	return &Hot{Store: store, Key: HotKey, TopK: topK}
}

func (s *Hot) Name() string { return "hot" }

func (s *Hot) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	topK := s.TopK
	if overfetch := rctx.Page * rctx.PageSize * 2; overfetch > topK {
		topK = overfetch
	}

	members, err := s.Store.ZRange(ctx, s.Key, 0, int64(topK)-1)
	if err != nil {
		return nil, err
	}

	items := make([]*core.Item, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		it := core.NewItem(id)
		if score, err := s.Store.ZScore(ctx, s.Key, member); err == nil {
			it.Score = score
		}
		items = append(items, it)
	}
	return items, nil
}
