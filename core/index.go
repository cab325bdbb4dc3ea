package core

import "context"

// VectorIndex 是内容向量检索的领域接口。
//
// 输入向量在融合前已 L2 归一化，因此 inner_product 即余弦相似度
// （带协同信号的融合向量范数略有差异，这是预期行为，见 embedding 包）。
type VectorIndex interface {
	// Search 返回与 query 最相似的 topK 个 (post id, score)，分数降序。
	// 平分时按建索引的插入顺序稳定排序。
	Search(ctx context.Context, query []float64, topK int) ([]VectorMatch, error)

	// Dimension 返回索引维度。
	Dimension() int

	// Len 返回索引内向量数量。
	Len() int
}

// VectorMatch 是一次检索命中。
type VectorMatch struct {
	ID    int64
	Score float64
}

// ErrIndexEmpty 表示索引尚未构建（刷新前被查询）。
var ErrIndexEmpty = NewDomainError(ModuleVector, ErrorCodeStaleData, "vector: index not built")
