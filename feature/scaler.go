package feature

import (
	"github.com/empowerverse/feedkit/core"
)

// MinMaxScaler 将数值列线性缩放到 [0,1]。
// 按构建快照拟合一次后冻结，同一快照内所有 Transform 共用同一组 min/max。
type MinMaxScaler struct {
	mins []float64
	maxs []float64
}

// FitScaler 在样本矩阵上拟合缩放参数。
// 所有行必须等宽；空输入返回 INVALID_INPUT。
func FitScaler(rows [][]float64) (*MinMaxScaler, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: scaler requires at least one row")
	}

	width := len(rows[0])
	s := &MinMaxScaler{
		mins: make([]float64, width),
		maxs: make([]float64, width),
	}
	copy(s.mins, rows[0])
	copy(s.maxs, rows[0])

	for _, row := range rows[1:] {
		if len(row) != width {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: scaler row width mismatch")
		}
		for j, v := range row {
			if v < s.mins[j] {
				s.mins[j] = v
			}
			if v > s.maxs[j] {
				s.maxs[j] = v
			}
		}
	}
	return s, nil
}

// Transform 缩放一行数值。常数列（max==min）输出 0。
func (s *MinMaxScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(s.mins))
	for j := range s.mins {
		if j >= len(row) {
			break
		}
		span := s.maxs[j] - s.mins[j]
		if span == 0 {
			out[j] = 0
			continue
		}
		out[j] = (row[j] - s.mins[j]) / span
	}
	return out
}

// Width 返回列数。
func (s *MinMaxScaler) Width() int { return len(s.mins) }
