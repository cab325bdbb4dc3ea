package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/empowerverse/feedkit/core"
)

// Enricher 为响应补充内容详情（标题、类目）。
// 生产实现见 client 包（上游内容 API + 熔断）。
type Enricher interface {
	PostDetail(ctx context.Context, id int64) (*core.PostDetail, error)
}

// DefaultEnrichTimeout 是单次详情查询的超时上限。
// 详情是锦上添花：超时就降级到占位详情，不拖垮整页响应。
const DefaultEnrichTimeout = 300 * time.Millisecond

// placeholderDetail 是详情不可用时的占位对象。
func placeholderDetail(id int64) *core.PostDetail {
	return &core.PostDetail{
		Title:    fmt.Sprintf("Post %d", id),
		Category: "Unknown",
	}
}

// enrichDetail 取一个候选的详情：
//   - 配置了外部 Enricher 时走外部（超时/失败降级占位）
//   - 否则直接用快照里的内容元数据
//
// 返回 (detail, skip)：skip=true 表示该 id 已不存在，应从结果页剔除。
func (e *Engine) enrichDetail(ctx context.Context, snap *snapshot, id int64) (*core.PostDetail, bool) {
	if e.enricher != nil {
		enrichCtx, cancel := context.WithTimeout(ctx, e.opts.EnrichTimeout)
		defer cancel()

		detail, err := e.enricher.PostDetail(enrichCtx, id)
		if err == nil && detail != nil {
			return detail, false
		}
		if core.IsNotFound(err) {
			return nil, true
		}
		return placeholderDetail(id), false
	}

	post, ok := snap.posts[id]
	if !ok {
		return placeholderDetail(id), false
	}
	detail := &core.PostDetail{Title: post.Title, Category: post.CategoryName}
	if detail.Title == "" {
		detail.Title = fmt.Sprintf("Post %d", id)
	}
	if detail.Category == "" {
		detail.Category = "Unknown"
	}
	return detail, false
}
