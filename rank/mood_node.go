package rank

import (
	"context"
	"sort"
	"strings"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/model"
	"github.com/empowerverse/feedkit/pipeline"
	"github.com/empowerverse/feedkit/pkg/utils"
	"github.com/empowerverse/feedkit/recall"
)

// MoodNode 是冷启动排序 Node：
// 没有用户向量时，用 mood 向量 ++ 内容融合向量 喂给打分模型，
// 按偏好概率重排 mood/热度召回的候选。
//
// 暖路径（ColdStart=false）直接透传，不做打分。
type MoodNode struct {
	Provider recall.SnapshotProvider
	Scorer   model.Scorer
	Dim      int
}

// NewMoodNode 创建冷启动排序节点。dim 是内容向量维度；
// scorer 的输入维度应为 2*dim。scorer 为 nil 时用确定性初始化的 MLP。
func NewMoodNode(provider recall.SnapshotProvider, scorer model.Scorer, dim int) *MoodNode {
	if scorer == nil {
		scorer = model.NewMLPModel([]int{2 * dim, 64, 1})
	}
	return &MoodNode{Provider: provider, Scorer: scorer, Dim: dim}
}

func (n *MoodNode) Name() string        { return "rank.mood" }
func (n *MoodNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *MoodNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if !rctx.ColdStart || rctx.Mood == "" || len(items) == 0 {
		return items, nil
	}

	snap, err := n.Provider.Snapshot()
	if err != nil {
		return nil, err
	}

	moodVec := MoodEmbedding(rctx.Mood, n.Dim)
	for _, item := range items {
		postVec, ok := snap.HybridPostVector(item.ID)
		if !ok || len(postVec) != n.Dim {
			continue
		}

		features := make([]float64, 0, 2*n.Dim)
		features = append(features, moodVec...)
		features = append(features, postVec...)

		score, err := n.Scorer.Predict(features)
		if err != nil {
			continue
		}
		item.Score = score
		item.PutLabel("rank_model", utils.Label{Value: n.Scorer.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}

// MoodEmbedding 返回情绪的确定性嵌入向量。
// 没有离线训练的情绪表时用哈希派生向量，同一情绪任何进程一致。
func MoodEmbedding(mood string, dim int) []float64 {
	return model.HashVector("mood:"+strings.ToLower(strings.TrimSpace(mood)), dim)
}
