package embedding

import (
	"math"

	"github.com/empowerverse/feedkit/factorize"
)

// 融合权重：内容信号为主，协同信号为辅。
const (
	DefaultContentWeight = 0.8
	DefaultCollabWeight  = 0.2
)

// Set 是一次构建产出的嵌入快照，构建后只读。
//
// 内容：
//   - Users/Posts：融合向量（内容 + 协同），检索用
//   - ContentPosts：归一化后的纯内容向量，两段式类目检索的候选池用
//
// 融合规则：
//   - 两侧输入各自 L2 归一化后加权求和：0.8*content + 0.2*collab
//   - 融合结果不再归一化（权重本身承载贡献比例）
//   - 无协同因子的实体（冷实体或分解缺席）退化为归一化内容向量
type Set struct {
	Users        map[int64][]float64
	Posts        map[int64][]float64
	ContentPosts map[int64][]float64

	Dim int
}

// Options 是融合配置。
type Options struct {
	ContentWeight float64
	CollabWeight  float64
}

// DefaultOptions 返回默认融合权重。
func DefaultOptions() Options {
	return Options{
		ContentWeight: DefaultContentWeight,
		CollabWeight:  DefaultCollabWeight,
	}
}

// NewSet 从内容向量与（可选的）协同分解产出构建嵌入快照。
// fact 为 nil 时全体实体走 content-only 退化路径。
func NewSet(userContent, postContent map[int64][]float64, fact *factorize.Factorization, opts Options) *Set {
	if opts.ContentWeight == 0 && opts.CollabWeight == 0 {
		opts = DefaultOptions()
	}

	dim := 0
	for _, vec := range postContent {
		dim = len(vec)
		break
	}

	s := &Set{
		Users:        make(map[int64][]float64, len(userContent)),
		Posts:        make(map[int64][]float64, len(postContent)),
		ContentPosts: make(map[int64][]float64, len(postContent)),
		Dim:          dim,
	}

	var userFactors, postFactors map[int64][]float64
	if fact != nil {
		userFactors = fact.UserFactors
		postFactors = fact.PostFactors
	}

	for id, vec := range userContent {
		s.Users[id] = fuse(vec, userFactors[id], opts)
	}
	for id, vec := range postContent {
		normalized := normalize(vec)
		s.ContentPosts[id] = normalized
		s.Posts[id] = fuseNormalized(normalized, postFactors[id], opts)
	}
	return s
}

// fuse 融合一个实体的内容向量与协同因子。
func fuse(content, collab []float64, opts Options) []float64 {
	return fuseNormalized(normalize(content), collab, opts)
}

// fuseNormalized 同 fuse，但内容向量已归一化。
// 协同因子缺失或维度不符时退化为归一化内容向量。
func fuseNormalized(content, collab []float64, opts Options) []float64 {
	if len(collab) != len(content) {
		return content
	}
	collab = normalize(collab)

	out := make([]float64, len(content))
	for i := range content {
		out[i] = opts.ContentWeight*content[i] + opts.CollabWeight*collab[i]
	}
	return out
}

func normalize(vec []float64) []float64 {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float64, len(vec))
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
