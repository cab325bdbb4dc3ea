package engine

import (
	"context"
	"strings"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/pipeline"
)

// Request 是一次 feed 请求。
//
// Username 可解析时走暖路径（个性化检索）；
// 不可解析时必须携带已注册的 Mood，走冷路径。
type Request struct {
	Username string
	Mood     string
	Category string
	Page     int
	PageSize int
}

// RecommendedPost 是结果页中的一条推荐。
type RecommendedPost struct {
	PostID   int64   `json:"post_id"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
}

// Response 是一个结果页。
type Response struct {
	Posts     []RecommendedPost `json:"posts"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
	ColdStart bool              `json:"cold_start"`

	// Cached 表示本页来自缓存（不进序列化，仅观测用）
	Cached bool `json:"-"`
}

// GetRecommendations 服务一次 feed 请求：
//
//	缓存命中 -> 原样返回
//	暖路径   -> 融合向量检索（带类目时两段式）-> seen/可用性过滤 -> 补位
//	冷路径   -> mood 类目池 -> 模型重排 -> 补位
//
// 之后统一分页切片、回填全局 Rank、补充详情并写缓存。
func (e *Engine) GetRecommendations(ctx context.Context, req *Request) (*Response, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = e.opts.PageSize
	}

	snap := e.snap.Load()
	if snap == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeStaleData,
			"engine: snapshot not built yet")
	}

	rctx := &core.RecommendContext{
		Username: req.Username,
		Mood:     req.Mood,
		Category: req.Category,
		Page:     page,
		PageSize: pageSize,
	}

	// 先解析主体再组缓存 key：冷请求按 mood 维度缓存，
	// 未知用户名不进入 key（两个 mood 不同的冷请求绝不共享缓存页）
	var (
		pipe    *pipeline.Pipeline
		subject string
	)
	if user, ok := snap.usersByName[strings.ToLower(strings.TrimSpace(req.Username))]; ok {
		rctx.UserID = user.ID
		subject = strings.ToLower(strings.TrimSpace(req.Username))
		if req.Category != "" {
			pipe = e.category
		} else {
			pipe = e.warm
		}
	} else {
		mood := strings.ToLower(strings.TrimSpace(req.Mood))
		if mood == "" {
			return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound,
				"engine: unknown user and no mood provided: "+req.Username)
		}
		rctx.ColdStart = true
		subject = "mood:" + mood
		pipe = e.cold
	}

	cacheKey := e.cache.Key(subject, page, pageSize, strings.ToLower(strings.TrimSpace(req.Category)))
	if resp, ok := e.cache.Get(ctx, cacheKey); ok {
		return resp, nil
	}

	items, err := pipe.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	// 分页切片 + 全局 Rank 回填
	offset := (page - 1) * pageSize
	end := offset + pageSize
	if offset > len(items) {
		offset = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	pageItems := items[offset:end]

	resp := &Response{
		Posts:     make([]RecommendedPost, 0, len(pageItems)),
		Page:      page,
		PageSize:  pageSize,
		ColdStart: rctx.ColdStart,
	}
	for _, item := range pageItems {
		detail, skip := e.enrichDetail(ctx, snap, item.ID)
		if skip {
			continue
		}
		// 剔除失效条目后重新编号，页内 rank 保持连续
		item.Rank = offset + len(resp.Posts) + 1
		resp.Posts = append(resp.Posts, RecommendedPost{
			PostID:   item.ID,
			Score:    item.Score,
			Rank:     item.Rank,
			Title:    detail.Title,
			Category: detail.Category,
		})
	}

	if err := e.cache.Set(ctx, cacheKey, resp); err != nil {
		e.logger.WithError(err).Warn("engine: cache write failed")
	}
	return resp, nil
}
