package feature

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/empowerverse/feedkit/core"
)

// Projection 是拟合一次后冻结的 PCA 降维器。
//
// 构建快照时在全量句向量上拟合主成分；之后所有 Transform
// （包括两段式类目检索的查询向量）都走同一组均值和主成分，
// 保证查询向量与索引向量处在同一空间。
type Projection struct {
	mean       []float64
	components *mat.Dense // inDim x outDim，样本不足时右侧补零列
	inDim      int
	outDim     int
}

// FitProjection 在样本矩阵上拟合 PCA。
// 可用主成分数受样本数限制；不足 outDim 的部分输出维度恒为 0。
func FitProjection(samples [][]float64, outDim int) (*Projection, error) {
	if len(samples) == 0 || len(samples[0]) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: projection requires at least one sample")
	}

	n := len(samples)
	d := len(samples[0])
	if outDim <= 0 || outDim > d {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: projection output dimension out of range")
	}

	x := mat.NewDense(n, d, nil)
	for i, row := range samples {
		if len(row) != d {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: projection sample width mismatch")
		}
		x.SetRow(i, row)
	}

	mean := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, x)
		mean[j] = stat.Mean(col, nil)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError, "feature: principal component decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	_, avail := vecs.Dims()

	k := outDim
	if avail < k {
		k = avail
	}

	components := mat.NewDense(d, outDim, nil)
	for j := 0; j < k; j++ {
		for i := 0; i < d; i++ {
			components.Set(i, j, vecs.At(i, j))
		}
	}

	return &Projection{
		mean:       mean,
		components: components,
		inDim:      d,
		outDim:     outDim,
	}, nil
}

// Transform 将一个输入向量投影到目标维度：(x - mean) · V。
func (p *Projection) Transform(vec []float64) ([]float64, error) {
	if len(vec) != p.inDim {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: projection input dimension mismatch")
	}

	centered := make([]float64, p.inDim)
	for i, v := range vec {
		centered[i] = v - p.mean[i]
	}

	out := mat.NewVecDense(p.outDim, nil)
	out.MulVec(p.components.T(), mat.NewVecDense(p.inDim, centered))
	return out.RawVector().Data, nil
}

// InDim 返回输入维度。
func (p *Projection) InDim() int { return p.inDim }

// OutDim 返回输出维度。
func (p *Projection) OutDim() int { return p.outDim }
