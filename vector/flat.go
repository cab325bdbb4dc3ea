package vector

import (
	"context"
	"sort"

	"github.com/empowerverse/feedkit/core"
)

// FlatIndex 是内存实现的精确内积检索索引。
//
// 特点：
//   - 暴力扫描（小语料精确检索；语料量大时可替换为分片/量化实现）
//   - 内积度量：输入向量已在融合前 L2 归一化，内积即余弦相似度
//   - 构建后不可变：刷新通过整体重建 + 原子替换完成，读侧无锁
//   - 平分时按插入顺序稳定排序
type FlatIndex struct {
	ids  []int64
	vecs [][]float64
	dim  int
}

// Build 从 id -> 向量 的快照构建索引。
// order 给定插入顺序（平分时的稳定序）；order 中缺向量的 id 会被跳过。
func Build(vectors map[int64][]float64, order []int64) *FlatIndex {
	idx := &FlatIndex{}
	for _, id := range order {
		vec, ok := vectors[id]
		if !ok || len(vec) == 0 {
			continue
		}
		if idx.dim == 0 {
			idx.dim = len(vec)
		}
		if len(vec) != idx.dim {
			continue
		}
		idx.ids = append(idx.ids, id)
		idx.vecs = append(idx.vecs, vec)
	}
	return idx
}

// BuildSubset 只对 pool 中的 id 构建索引（两段式类目检索的池内重排用）。
func BuildSubset(vectors map[int64][]float64, pool []int64) *FlatIndex {
	return Build(vectors, pool)
}

func (idx *FlatIndex) Dimension() int { return idx.dim }

func (idx *FlatIndex) Len() int { return len(idx.ids) }

// Search 返回与 query 内积最大的 topK 个命中，分数降序。
func (idx *FlatIndex) Search(ctx context.Context, query []float64, topK int) ([]core.VectorMatch, error) {
	if idx == nil || len(idx.ids) == 0 {
		return nil, core.ErrIndexEmpty
	}
	if len(query) != idx.dim {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector: query dimension mismatch")
	}
	if topK <= 0 {
		topK = 10
	}

	matches := make([]core.VectorMatch, len(idx.ids))
	for i, vec := range idx.vecs {
		matches[i] = core.VectorMatch{
			ID:    idx.ids[i],
			Score: dot(query, vec),
		}
	}

	// SliceStable 保证平分时维持插入顺序
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

var _ core.VectorIndex = (*FlatIndex)(nil)
