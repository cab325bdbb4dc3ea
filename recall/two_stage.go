package recall

import (
	"context"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/vector"
)

// QueryEncoder 将类目/项目名编码为与内容索引同空间的查询向量。
type QueryEncoder interface {
	EncodeQuery(text string) ([]float64, error)
}

// TwoStage 是带类目过滤的两段式召回源：
//
//	第一段：类目名编码为查询向量，在纯内容索引上召回 PoolSize 个候选池
//	第二段：剔除用户已交互内容后，在池内用用户融合向量重排，截断 FinalK
//
// 直接在融合索引上按类目查询会让协同信号污染类目匹配度，
// 所以第一段只用内容索引，个性化放在第二段。
type TwoStage struct {
	Provider SnapshotProvider
	Seen     SeenProvider

	PoolSize int // 候选池大小
	FinalK   int // 重排后截断
}

func NewTwoStage(provider SnapshotProvider, seen SeenProvider) *TwoStage {
	return &TwoStage{
		Provider: provider,
		Seen:     seen,
		PoolSize: 500,
		FinalK:   100,
	}
}

func (s *TwoStage) Name() string { return "two_stage" }

func (s *TwoStage) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx.Category == "" {
		return nil, nil
	}

	snap, err := s.Provider.Snapshot()
	if err != nil {
		return nil, err
	}

	encoder := snap.Encoder()
	if encoder == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeStaleData,
			"recall: snapshot carries no query encoder")
	}
	query, err := encoder.EncodeQuery(rctx.Category)
	if err != nil {
		return nil, err
	}

	poolSize := s.PoolSize
	if poolSize <= 0 {
		poolSize = 500
	}
	pool, err := snap.ContentIndex().Search(ctx, query, poolSize)
	if err != nil {
		return nil, err
	}

	var seen map[int64]struct{}
	if s.Seen != nil && rctx.UserID > 0 {
		seen, err = s.Seen.SeenPosts(ctx, rctx.UserID)
		if err != nil {
			return nil, err
		}
	}

	// 池内候选的融合向量子集索引
	poolVecs := make(map[int64][]float64, len(pool))
	poolOrder := make([]int64, 0, len(pool))
	for _, m := range pool {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		if vec, ok := snap.HybridPostVector(m.ID); ok {
			poolVecs[m.ID] = vec
			poolOrder = append(poolOrder, m.ID)
		}
	}
	if len(poolOrder) == 0 {
		return nil, nil
	}

	userVec, ok := snap.UserVector(rctx.UserID)
	if !ok {
		// 未知用户的类目请求退化为类目相关度排序
		items := make([]*core.Item, 0, len(poolOrder))
		for _, m := range pool {
			if _, kept := poolVecs[m.ID]; !kept {
				continue
			}
			it := core.NewItem(m.ID)
			it.Score = m.Score
			items = append(items, it)
		}
		return truncate(items, s.finalK()), nil
	}

	subset := vector.BuildSubset(poolVecs, poolOrder)
	matches, err := subset.Search(ctx, userVec, s.finalK())
	if err != nil {
		return nil, err
	}

	items := make([]*core.Item, 0, len(matches))
	for _, m := range matches {
		it := core.NewItem(m.ID)
		it.Score = m.Score
		items = append(items, it)
	}
	return items, nil
}

func (s *TwoStage) finalK() int {
	if s.FinalK <= 0 {
		return 100
	}
	return s.FinalK
}

func truncate(items []*core.Item, n int) []*core.Item {
	if len(items) > n {
		return items[:n]
	}
	return items
}
