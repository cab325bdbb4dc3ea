package filter

import (
	"context"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/pkg/dsl"
)

// MetaHydrator 为候选补充元信息（类目、可投放标志等），
// 供规则表达式引用。返回 nil 表示该 id 在快照中不存在。
type MetaHydrator func(id int64) map[string]any

// RuleFilter 是 CEL 规则过滤器：表达式求值为 false 的候选被剔除。
//
// 典型规则（投放可用性约束）：
//
//	item.is_available_in_public_feed && !item.is_locked
type RuleFilter struct {
	evaluator *dsl.Evaluator
	hydrate   MetaHydrator
}

// NewRuleFilter 编译 keep 规则。hydrate 可以为 nil（只用已有 Meta）。
func NewRuleFilter(keepExpr string, hydrate MetaHydrator) (*RuleFilter, error) {
	evaluator, err := dsl.NewEvaluator(keepExpr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{evaluator: evaluator, hydrate: hydrate}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}

	if f.hydrate != nil {
		meta := f.hydrate(item.ID)
		if meta == nil {
			// 快照里没有的 id 直接剔除（索引与目录短暂不一致时的局部跳过）
			return true, nil
		}
		for k, v := range meta {
			if _, exists := item.Meta[k]; !exists {
				if item.Meta == nil {
					item.Meta = make(map[string]any)
				}
				item.Meta[k] = v
			}
		}
	}

	keep, err := f.evaluator.EvalItem(rctx, item)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

var _ Filter = (*RuleFilter)(nil)
