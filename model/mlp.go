package model

import (
	"fmt"
	"math"

	"github.com/empowerverse/feedkit/core"
)

// MLPModel 是多层感知机打分模型。
//
// 工程特征：
//   - 实时性：好（本地前向推理）
//   - 计算复杂度：中等（多层全连接）
//   - 可解释性：弱（黑盒模型）
//
// 使用场景：
//   - 冷启动 mood 打分：输入 = mood 向量 ++ 内容向量，输出偏好概率
//   - 权重从离线训练产出加载（SetLayer），未加载时用确定性初始化
type MLPModel struct {
	// Layers 是每层的神经元数量，例如 [256, 64, 1]
	Layers []int

	// Weights 是每层的权重矩阵：weights[layer][neuron][input]
	Weights [][][]float64

	// Biases 是每层的偏置：biases[layer][neuron]
	Biases [][]float64
}

// NewMLPModel 创建一个新的 MLP 模型。
// layers[0] 为输入维度，最后一层应为 1（标量打分）。
// 权重用确定性的 Xavier 初始化，随后可以被 SetLayer 覆盖。
func NewMLPModel(layers []int) *MLPModel {
	if len(layers) < 2 {
		layers = []int{256, 64, 1}
	}

	m := &MLPModel{
		Layers:  layers,
		Weights: make([][][]float64, len(layers)-1),
		Biases:  make([][]float64, len(layers)-1),
	}

	for l := 0; l < len(layers)-1; l++ {
		in, out := layers[l], layers[l+1]
		scale := math.Sqrt(2.0 / float64(in+out))

		m.Weights[l] = make([][]float64, out)
		m.Biases[l] = make([]float64, out)
		for j := 0; j < out; j++ {
			row := HashVector(layerSeed(l, j), in)
			for k := range row {
				row[k] *= scale * math.Sqrt(float64(in))
			}
			m.Weights[l][j] = row
		}
	}
	return m
}

func layerSeed(layer, neuron int) string {
	return fmt.Sprintf("mlp:%d:%d", layer, neuron)
}

// SetLayer 覆盖指定层的权重和偏置（从离线训练产出加载）。
func (m *MLPModel) SetLayer(layer int, weights [][]float64, biases []float64) error {
	if layer < 0 || layer >= len(m.Weights) {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "model: layer index out of range")
	}
	if len(weights) != m.Layers[layer+1] || len(biases) != m.Layers[layer+1] {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "model: layer size mismatch")
	}
	m.Weights[layer] = weights
	m.Biases[layer] = biases
	return nil
}

// Predict 前向推理：隐藏层 ReLU，输出层 Sigmoid。
func (m *MLPModel) Predict(features []float64) (float64, error) {
	if len(features) != m.Layers[0] {
		return 0, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "model: input dimension mismatch")
	}

	activ := features
	for l := 0; l < len(m.Weights); l++ {
		next := make([]float64, m.Layers[l+1])
		for j, row := range m.Weights[l] {
			sum := m.Biases[l][j]
			for k, w := range row {
				sum += w * activ[k]
			}
			if l < len(m.Weights)-1 {
				// 隐藏层 ReLU
				if sum < 0 {
					sum = 0
				}
			}
			next[j] = sum
		}
		activ = next
	}
	return sigmoid(activ[0]), nil
}

// Name 返回模型名称。
func (m *MLPModel) Name() string {
	return "mlp"
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

var _ Scorer = (*MLPModel)(nil)
