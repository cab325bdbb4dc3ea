package filter

import (
	"context"

	"github.com/empowerverse/feedkit/core"
)

// Filter 是单个过滤器：判断一个候选是否应被剔除。
type Filter interface {
	Name() string

	// ShouldFilter 返回 true 表示该候选应被剔除。
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
