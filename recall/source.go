package recall

import (
	"context"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/pipeline"
	"github.com/empowerverse/feedkit/pkg/utils"
)

// Source 表示一个可复用的召回源（向量/热门/mood/类目/...）。
// 可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// SnapshotView 是召回侧对嵌入快照的只读视图，由 engine 在每次构建后提供。
// 刷新通过整体替换实现，召回节点持有的引用在一次请求内稳定。
type SnapshotView interface {
	// UserVector 返回用户的融合向量。
	UserVector(userID int64) ([]float64, bool)

	// HybridIndex 返回融合向量索引（暖路径检索）。
	HybridIndex() core.VectorIndex

	// ContentIndex 返回纯内容向量索引（两段式候选池）。
	ContentIndex() core.VectorIndex

	// HybridPostVector 返回内容条目的融合向量（池内重排用）。
	HybridPostVector(postID int64) ([]float64, bool)

	// Encoder 返回与本快照内容索引同空间的查询编码器。
	// 编码器随快照拟合冻结：查询向量与索引向量永远出自同一次投影。
	Encoder() QueryEncoder
}

// SnapshotProvider 按请求取当前快照视图；快照未构建时返回 STALE_DATA。
type SnapshotProvider interface {
	Snapshot() (SnapshotView, error)
}

// SeenProvider 返回用户交互过的内容集合（任何类型的交互都算 seen）。
type SeenProvider interface {
	SeenPosts(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

// SourceNode 将一个 Source 适配为 Recall Node：
// 召回结果与上游 items 合并，按 ID 去重（保留先出现的）。
type SourceNode struct {
	Source Source
}

func (n *SourceNode) Name() string        { return "recall." + n.Source.Name() }
func (n *SourceNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *SourceNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	recalled, err := n.Source.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	for _, it := range recalled {
		it.PutLabel("recall_source", utils.Label{Value: n.Source.Name(), Source: "recall"})
	}
	return mergeByID(items, recalled), nil
}

// mergeByID 合并两批候选，按 ID 去重；重复时保留先出现的并合并 labels。
func mergeByID(batches ...[]*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item)
	var out []*core.Item
	for _, batch := range batches {
		for _, it := range batch {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}
	return out
}
