package model

// Scorer 是打分模型的统一接口。
// 输入为拼接好的稠密特征向量，输出为 [0,1] 的偏好概率。
type Scorer interface {
	// Predict 对特征向量打分。
	Predict(features []float64) (float64, error)

	// Name 返回模型名称。
	Name() string
}
