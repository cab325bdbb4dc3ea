package config

import (
	"fmt"
	"time"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/filter"
	"github.com/empowerverse/feedkit/pipeline"
	"github.com/empowerverse/feedkit/pkg/conv"
	"github.com/empowerverse/feedkit/rank"
	"github.com/empowerverse/feedkit/recall"
	"github.com/empowerverse/feedkit/rerank"
)

// Deps 是节点构建器用到的运行时依赖。
// 通常全部由 *engine.Engine 提供（它实现了这里的所有接口）。
type Deps struct {
	Provider recall.SnapshotProvider
	Seen     filter.SeenStore
	Mood     recall.MoodCatalog
	Store    core.KeyValueStore
	Hydrate  filter.MetaHydrator
}

// NewNodeFactory 注册全部内建节点类型，返回可用于
// pipeline.Config.BuildPipeline 的工厂。
//
// 节点类型与配置项：
//
//	recall.hybrid     top_k
//	recall.two_stage  pool_size, final_k
//	recall.hot        top_k
//	recall.mood       seed
//	recall.fanout     sources（hybrid/two_stage/hot/mood 名单）, timeout_ms, max_concurrent
//	filter.seen       -
//	filter.rule       keep（CEL 表达式）
//	rank.mood         dim
//	rerank.topn       n
//	rerank.backfill   top_k（补位热度源的截断）
func NewNodeFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.hybrid", func(cfg map[string]any) (pipeline.Node, error) {
		topK := int(conv.ConfigGetInt64(cfg, "top_k", 100))
		return &recall.SourceNode{Source: recall.NewHybrid(deps.Provider, topK)}, nil
	})

	factory.Register("recall.two_stage", func(cfg map[string]any) (pipeline.Node, error) {
		src := recall.NewTwoStage(deps.Provider, deps.Seen)
		src.PoolSize = int(conv.ConfigGetInt64(cfg, "pool_size", 500))
		src.FinalK = int(conv.ConfigGetInt64(cfg, "final_k", 100))
		return &recall.SourceNode{Source: src}, nil
	})

	factory.Register("recall.hot", func(cfg map[string]any) (pipeline.Node, error) {
		topK := int(conv.ConfigGetInt64(cfg, "top_k", 100))
		return &recall.SourceNode{Source: recall.NewHot(deps.Store, topK)}, nil
	})

	factory.Register("recall.mood", func(cfg map[string]any) (pipeline.Node, error) {
		opts := []recall.MoodOption{}
		if seed := conv.ConfigGetInt64(cfg, "seed", 0); seed != 0 {
			opts = append(opts, recall.WithMoodSeed(seed))
		}
		return &recall.SourceNode{Source: recall.NewMood(deps.Mood, opts...)}, nil
	})

	factory.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		rawSources, _ := cfg["sources"].([]any)
		if len(rawSources) == 0 {
			return nil, fmt.Errorf("recall.fanout: sources is required")
		}
		sources := make([]recall.Source, 0, len(rawSources))
		for _, raw := range rawSources {
			name, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("recall.fanout: source name must be a string, got %T", raw)
			}
			src, err := buildSource(name, cfg, deps)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}
		timeoutMS := conv.ConfigGetInt64(cfg, "timeout_ms", 0)
		return &recall.Fanout{
			Sources:       sources,
			Timeout:       time.Duration(timeoutMS) * time.Millisecond,
			MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
		}, nil
	})

	factory.Register("filter.seen", func(cfg map[string]any) (pipeline.Node, error) {
		return filter.NewSeenNode(deps.Seen), nil
	})

	factory.Register("filter.rule", func(cfg map[string]any) (pipeline.Node, error) {
		keep := conv.ConfigGet(cfg, "keep", "")
		if keep == "" {
			return nil, fmt.Errorf("filter.rule: keep expression is required")
		}
		rule, err := filter.NewRuleFilter(keep, deps.Hydrate)
		if err != nil {
			return nil, err
		}
		return &filter.FilterNode{Filters: []filter.Filter{rule}}, nil
	})

	factory.Register("rank.mood", func(cfg map[string]any) (pipeline.Node, error) {
		dim := int(conv.ConfigGetInt64(cfg, "dim", 128))
		return rank.NewMoodNode(deps.Provider, nil, dim), nil
	})

	factory.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopN{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
	})

	factory.Register("rerank.backfill", func(cfg map[string]any) (pipeline.Node, error) {
		topK := int(conv.ConfigGetInt64(cfg, "top_k", 100))
		return rerank.NewBackfill(recall.NewHot(deps.Store, topK), deps.Seen), nil
	})

	return factory
}

// buildSource 按名字构建 fanout 的子召回源，共享节点级配置项。
func buildSource(name string, cfg map[string]any, deps Deps) (recall.Source, error) {
	switch name {
	case "hybrid":
		return recall.NewHybrid(deps.Provider, int(conv.ConfigGetInt64(cfg, "top_k", 100))), nil
	case "two_stage":
		src := recall.NewTwoStage(deps.Provider, deps.Seen)
		src.PoolSize = int(conv.ConfigGetInt64(cfg, "pool_size", 500))
		src.FinalK = int(conv.ConfigGetInt64(cfg, "final_k", 100))
		return src, nil
	case "hot":
		return recall.NewHot(deps.Store, int(conv.ConfigGetInt64(cfg, "top_k", 100))), nil
	case "mood":
		opts := []recall.MoodOption{}
		if seed := conv.ConfigGetInt64(cfg, "seed", 0); seed != 0 {
			opts = append(opts, recall.WithMoodSeed(seed))
		}
		return recall.NewMood(deps.Mood, opts...), nil
	default:
		return nil, fmt.Errorf("recall.fanout: unknown source %q", name)
	}
}
