package config

import (
	"testing"

	"github.com/empowerverse/feedkit/recall"
)

func TestNodeFactory_FanoutWiresSources(t *testing.T) {
	factory := NewNodeFactory(Deps{})

	node, err := factory.Build("recall.fanout", map[string]any{
		"sources":        []any{"hybrid", "hot"},
		"timeout_ms":     int64(50),
		"max_concurrent": int64(2),
	})
	if err != nil {
		t.Fatalf("Build(recall.fanout) error = %v", err)
	}

	fanout, ok := node.(*recall.Fanout)
	if !ok {
		t.Fatalf("node type = %T, want *recall.Fanout", node)
	}
	if len(fanout.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(fanout.Sources))
	}
	if fanout.Sources[0].Name() != "hybrid" || fanout.Sources[1].Name() != "hot" {
		t.Errorf("source order = [%s %s], want [hybrid hot]",
			fanout.Sources[0].Name(), fanout.Sources[1].Name())
	}
	if fanout.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", fanout.MaxConcurrent)
	}
}

func TestNodeFactory_FanoutRequiresSources(t *testing.T) {
	factory := NewNodeFactory(Deps{})

	if _, err := factory.Build("recall.fanout", map[string]any{}); err == nil {
		t.Error("fanout without sources should fail to build")
	}
	if _, err := factory.Build("recall.fanout", map[string]any{
		"sources": []any{"nonexistent"},
	}); err == nil {
		t.Error("fanout with an unknown source name should fail to build")
	}
}

func TestNodeFactory_RuleFilterRequiresExpression(t *testing.T) {
	factory := NewNodeFactory(Deps{})

	if _, err := factory.Build("filter.rule", map[string]any{}); err == nil {
		t.Error("filter.rule without keep expression should fail to build")
	}
	if _, err := factory.Build("filter.rule", map[string]any{
		"keep": "!item.is_locked",
	}); err != nil {
		t.Errorf("filter.rule with keep expression error = %v", err)
	}
}

func TestNodeFactory_UnknownNodeType(t *testing.T) {
	factory := NewNodeFactory(Deps{})

	if _, err := factory.Build("recall.unknown", nil); err == nil {
		t.Error("unknown node type should fail to build")
	}
}
