package filter

import (
	"context"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/pipeline"
	"github.com/empowerverse/feedkit/pkg/utils"
)

// SeenStore 返回用户交互过的内容集合。
// 任何类型的交互（包括 view）都算 seen。
type SeenStore interface {
	SeenPosts(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

// SeenNode 剔除用户已交互过的内容，暖路径的硬性约束。
//
// 每次请求只拉取一次 seen 集合，逐候选做集合判断；
// 冷路径（UserID 未知）直接透传。
type SeenNode struct {
	Store SeenStore
}

func NewSeenNode(store SeenStore) *SeenNode {
	return &SeenNode{Store: store}
}

func (n *SeenNode) Name() string        { return "filter.seen" }
func (n *SeenNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *SeenNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Store == nil || rctx.UserID <= 0 || len(items) == 0 {
		return items, nil
	}

	seen, err := n.Store.SeenPosts(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(seen) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			item.PutLabel("filtered", utils.Label{Value: "seen", Source: n.Name()})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
