package model

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
)

// TextEncoder 将文本编码为稠密句向量。
//
// 核心思想：
//   - 将文本分词后查词向量表，平均池化得到句向量
//   - 词表未命中时用哈希派生的确定性伪随机向量（feature hashing），
//     保证同一个词在任何进程、任何时刻编码一致
//   - 句向量后续交给 feature.Projection 降维到目标维度
//
// 工程特征：
//   - 实时性：好（O(词数) 查表 + 平均）
//   - 确定性：强（无外部模型文件也能得到稳定向量）
type TextEncoder struct {
	// WordVectors 预训练词向量表：word -> vector（可选）
	WordVectors map[string][]float64

	// Dimension 句向量维度
	Dimension int
}

// NewTextEncoder 创建一个文本编码器。
// wordVectors 可以为 nil，此时全部词走哈希派生向量。
func NewTextEncoder(wordVectors map[string][]float64, dimension int) *TextEncoder {
	if dimension <= 0 {
		for _, vec := range wordVectors {
			dimension = len(vec)
			break
		}
	}
	if dimension <= 0 {
		dimension = 384
	}
	return &TextEncoder{
		WordVectors: wordVectors,
		Dimension:   dimension,
	}
}

// WordVector 返回单个词的向量。
// 词表未命中时返回哈希派生的确定性向量。
func (e *TextEncoder) WordVector(word string) []float64 {
	if vec, ok := e.WordVectors[word]; ok && len(vec) == e.Dimension {
		return vec
	}
	return HashVector(word, e.Dimension)
}

// EncodeText 将文本编码为句向量（分词 + 词向量平均池化）。
// 空文本返回零向量。
func (e *TextEncoder) EncodeText(text string) []float64 {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(words) == 0 {
		return make([]float64, e.Dimension)
	}

	pooled := make([]float64, e.Dimension)
	for _, word := range words {
		vec := e.WordVector(word)
		for i := 0; i < e.Dimension; i++ {
			pooled[i] += vec[i]
		}
	}
	for i := 0; i < e.Dimension; i++ {
		pooled[i] /= float64(len(words))
	}
	return pooled
}

// Similarity 计算两个向量的余弦相似度。
func (e *TextEncoder) Similarity(vec1, vec2 []float64) float64 {
	if len(vec1) != len(vec2) {
		return 0.0
	}

	var dot, norm1, norm2 float64
	for i := 0; i < len(vec1); i++ {
		dot += vec1[i] * vec2[i]
		norm1 += vec1[i] * vec1[i]
		norm2 += vec2[i] * vec2[i]
	}
	if norm1 == 0 || norm2 == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(norm1) * math.Sqrt(norm2))
}

// Name 返回编码器名称。
func (e *TextEncoder) Name() string {
	return "text_encoder"
}

// HashVector 从种子字符串派生一个确定性的单位长度伪随机向量。
// 同一种子在任何进程得到同一向量；不同种子近似正交。
func HashVector(seed string, dim int) []float64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float64, dim)
	var norm float64
	for i := 0; i < dim; i++ {
		vec[i] = rng.NormFloat64()
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := 0; i < dim; i++ {
			vec[i] /= norm
		}
	}
	return vec
}
