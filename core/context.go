package core

import "github.com/empowerverse/feedkit/pkg/utils"

// RecommendContext 承载一次 feed 请求的主体与约束，贯穿整个 Pipeline 透传。
//
// Subject 的两种形态：
//   - 暖路径：Username 可解析为已知用户（UserID > 0，ColdStart = false）
//   - 冷路径：用户未知，调用方必须提供 Mood（ColdStart = true）
type RecommendContext struct {
	Username string
	UserID   int64

	// Mood 是冷启动时的情绪标识（例如 "Calm"）。
	// 用户可解析时忽略。
	Mood string

	// ColdStart 表示请求走冷路径（用户无可用交互历史）。
	ColdStart bool

	// Category 是可选的自由文本类目/项目过滤（project_code 或类目名）。
	Category string

	Page     int
	PageSize int

	// Labels 是请求级标签，可驱动整个 Pipeline 行为（新用户、实验桶等）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（latitude、device_type、realtime_* 等）。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
