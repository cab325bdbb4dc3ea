// Package dsl 提供基于 CEL（Common Expression Language）的规则求值器，
// 用于配置化的过滤/投放规则，例如：
//
//	item.is_available_in_public_feed && !item.is_locked
//	rctx.cold_start || labels["recall_source"] == "hybrid"
package dsl

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/empowerverse/feedkit/core"
)

// Evaluator 是编译后的 CEL 规则，可并发复用。
type Evaluator struct {
	expr    string
	program cel.Program
}

// NewEvaluator 编译一条 CEL 规则。
// 可用变量：item（候选元信息）、labels（候选标签）、rctx（请求上下文）。
func NewEvaluator(expr string) (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("labels", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("dsl: create env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, iss.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}

	return &Evaluator{expr: expr, program: program}, nil
}

// Expr 返回规则原文。
func (e *Evaluator) Expr() string { return e.expr }

// EvalItem 对一个候选求值，返回规则结果（必须是 bool 类型的表达式）。
func (e *Evaluator) EvalItem(rctx *core.RecommendContext, item *core.Item) (bool, error) {
	out, _, err := e.program.Eval(buildInput(rctx, item))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", e.expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: rule %q did not evaluate to bool", e.expr)
	}
	return b, nil
}

func buildInput(rctx *core.RecommendContext, item *core.Item) map[string]any {
	itemInput := map[string]any{"id": item.ID, "score": item.Score}
	for k, v := range item.Meta {
		itemInput[k] = v
	}

	labels := make(map[string]any, len(item.Labels))
	for k, lbl := range item.Labels {
		labels[k] = lbl.Value
	}

	rctxInput := map[string]any{
		"username":   rctx.Username,
		"user_id":    rctx.UserID,
		"mood":       rctx.Mood,
		"cold_start": rctx.ColdStart,
		"category":   rctx.Category,
		"page":       rctx.Page,
		"page_size":  rctx.PageSize,
	}
	for k, v := range rctx.Params {
		if _, reserved := rctxInput[k]; !reserved {
			rctxInput[k] = v
		}
	}

	return map[string]any{
		"item":   itemInput,
		"labels": labels,
		"rctx":   rctxInput,
	}
}
