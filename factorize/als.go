package factorize

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/empowerverse/feedkit/core"
)

// ALSOptions 是隐式反馈 ALS 的超参数。
type ALSOptions struct {
	// Factors 隐因子维度
	Factors int

	// Regularization L2 正则系数
	Regularization float64

	// Iterations 交替迭代轮数
	Iterations int

	// Alpha 置信度放大系数：confidence = 1 + alpha * weight
	Alpha float64

	// Seed 因子初始化种子（固定种子保证可复现）
	Seed int64
}

// DefaultALSOptions 返回默认超参数。
func DefaultALSOptions() ALSOptions {
	return ALSOptions{
		Factors:        128,
		Regularization: 0.01,
		Iterations:     30,
		Alpha:          15,
		Seed:           42,
	}
}

// Factorization 是一次 ALS 分解的产出。
// 两侧因子均已 L2 归一化，可直接与内容向量做加权融合。
type Factorization struct {
	// UserFactors 用户隐因子：user_id -> 单位向量
	UserFactors map[int64][]float64

	// PostFactors 内容隐因子：post_id -> 单位向量
	PostFactors map[int64][]float64

	// Factors 因子维度
	Factors int
}

// RunALS 在交互矩阵上运行隐式反馈 ALS（Hu et al. 的 implicit 变体）。
//
// 每轮交替固定一侧因子，对另一侧逐行求解正规方程：
//
//	(YtY + Yt(Cu-I)Y + λI) x = Yt Cu p(u)
//
// 其中 Cu 的对角元为 1 + alpha*weight，p(u) 对非零格取 1。
func RunALS(ctx context.Context, m *InteractionMatrix, opts ALSOptions) (*Factorization, error) {
	if m == nil || m.Rows() < 2 {
		return nil, core.NewDomainError(core.ModuleFactorize, core.ErrorCodeEmptyMatrix,
			"factorize: matrix too small to factorize")
	}
	if opts.Factors <= 0 {
		opts = DefaultALSOptions()
	}

	rows, cols := m.Rows(), m.Cols()
	f := opts.Factors

	rng := rand.New(rand.NewSource(opts.Seed))
	userF := randomFactors(rng, rows, f)
	postF := randomFactors(rng, cols, f)

	// 列视角的稀疏转置，供求解 post 侧使用
	colCells := make(map[int]map[int]float64, cols)
	for row, cells := range m.Cells {
		for col, w := range cells {
			cc, ok := colCells[col]
			if !ok {
				cc = make(map[int]float64)
				colCells[col] = cc
			}
			cc[row] = w
		}
	}

	for iter := 0; iter < opts.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := solveSide(userF, postF, m.Cells, opts); err != nil {
			return nil, err
		}
		if err := solveSide(postF, userF, colCells, opts); err != nil {
			return nil, err
		}
	}

	out := &Factorization{
		UserFactors: make(map[int64][]float64, rows),
		PostFactors: make(map[int64][]float64, cols),
		Factors:     f,
	}
	for i, id := range m.UserIDs {
		out.UserFactors[id] = l2Normalize(userF.RawRowView(i))
	}
	for j, id := range m.PostIDs {
		out.PostFactors[id] = l2Normalize(postF.RawRowView(j))
	}
	return out, nil
}

// solveSide 固定 fixed 一侧，逐行求解 target 一侧的因子。
// cells 是 target 行 -> fixed 行 -> 权重 的稀疏视图。
func solveSide(target, fixed *mat.Dense, cells map[int]map[int]float64, opts ALSOptions) error {
	n, f := target.Dims()

	// YtY + λI 是所有行共享的基底
	var ytY mat.Dense
	ytY.Mul(fixed.T(), fixed)
	base := mat.NewDense(f, f, nil)
	base.Copy(&ytY)
	for i := 0; i < f; i++ {
		base.Set(i, i, base.At(i, i)+opts.Regularization)
	}

	a := mat.NewDense(f, f, nil)
	b := mat.NewVecDense(f, nil)
	for row := 0; row < n; row++ {
		nz := cells[row]
		if len(nz) == 0 {
			// 无交互的行保持初始化值，归一化后仍是合法单位向量
			continue
		}

		a.Copy(base)
		b.Zero()
		for col, w := range nz {
			c := 1 + opts.Alpha*w
			y := fixed.RawRowView(col)
			// A += (c-1) * y yT；b += c * y（p=1）
			for i := 0; i < f; i++ {
				b.SetVec(i, b.AtVec(i)+c*y[i])
				for j := 0; j < f; j++ {
					a.Set(i, j, a.At(i, j)+(c-1)*y[i]*y[j])
				}
			}
		}

		var x mat.VecDense
		if err := x.SolveVec(a, b); err != nil {
			return core.NewDomainError(core.ModuleFactorize, core.ErrorCodeInternalError,
				"factorize: normal equation solve failed")
		}
		target.SetRow(row, x.RawVector().Data)
	}
	return nil
}

func randomFactors(rng *rand.Rand, n, f int) *mat.Dense {
	data := make([]float64, n*f)
	for i := range data {
		data[i] = rng.NormFloat64() * 0.01
	}
	return mat.NewDense(n, f, data)
}

func l2Normalize(vec []float64) []float64 {
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
