package feature

import (
	"context"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/model"
)

// NumericWidth 是用户数值块的列数：
// follower/following/post 数、登录 streak、时薪、经纬度。
const NumericWidth = 7

// NumericSource 提供用户数值特征行（列序与 numericRow 一致）。
// 缺省实现从 Catalog 快照读取；生产环境可换成 Feast 在线特征。
type NumericSource interface {
	NumericRows(ctx context.Context, users []*core.User) (map[int64][]float64, error)
}

// Builder 构建内容向量：文本编码 → PCA 降维 →（用户侧）拼接归一化数值块。
//
// Builder 本身无状态：每次快照构建都重新拟合 PCA 和缩放器，
// 拟合产物随返回的 QueryEncoder / 向量集一起冻结在快照里，
// 请求路径不会读到构建中途的状态。
type Builder struct {
	encoder *model.TextEncoder
	dim     int

	numeric NumericSource
}

// BuilderOption 是 Builder 的函数式配置项。
type BuilderOption func(*Builder)

// WithNumericSource 指定用户数值特征来源（如 Feast 在线特征）。
func WithNumericSource(src NumericSource) BuilderOption {
	return func(b *Builder) { b.numeric = src }
}

// NewBuilder 创建特征构建器。dim 是最终内容向量维度。
func NewBuilder(encoder *model.TextEncoder, dim int, opts ...BuilderOption) *Builder {
	if dim <= 0 {
		dim = 128
	}
	b := &Builder{encoder: encoder, dim: dim}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dim 返回内容向量维度。
func (b *Builder) Dim() int { return b.dim }

// QueryEncoder 持有一次拟合的 post 侧编码状态（文本编码器 + 冻结投影）。
// 两段式类目检索用它把查询文本编码到与内容索引相同的空间。
// 实例不可变，随快照整体替换。
type QueryEncoder struct {
	encoder *model.TextEncoder
	proj    *Projection
	dim     int
}

// EncodeQuery 将查询文本编码为内容空间向量。
func (q *QueryEncoder) EncodeQuery(text string) ([]float64, error) {
	vec, err := q.proj.Transform(q.encoder.EncodeText(text))
	if err != nil {
		return nil, err
	}
	return padTo(vec, q.dim), nil
}

// BuildPostVectors 为全量内容构建向量，并返回携带冻结投影的查询编码器。
func (b *Builder) BuildPostVectors(ctx context.Context, posts []*core.Post) (map[int64][]float64, *QueryEncoder, error) {
	if len(posts) == 0 {
		return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: no posts to build")
	}

	samples := make([][]float64, len(posts))
	for i, post := range posts {
		samples[i] = b.encoder.EncodeText(ComposePostText(post))
	}

	outDim := b.dim
	if outDim > b.encoder.Dimension {
		outDim = b.encoder.Dimension
	}
	proj, err := FitProjection(samples, outDim)
	if err != nil {
		return nil, nil, err
	}

	vectors := make(map[int64][]float64, len(posts))
	for i, post := range posts {
		vec, err := proj.Transform(samples[i])
		if err != nil {
			return nil, nil, err
		}
		vectors[post.ID] = padTo(vec, b.dim)
	}
	return vectors, &QueryEncoder{encoder: b.encoder, proj: proj, dim: b.dim}, nil
}

// BuildUserVectors 为全量用户构建向量：
// 文本投影到 dim-NumericWidth 维，再拼接 [0,1] 缩放后的数值块。
func (b *Builder) BuildUserVectors(ctx context.Context, users []*core.User) (map[int64][]float64, error) {
	if len(users) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: no users to build")
	}

	samples := make([][]float64, len(users))
	for i, user := range users {
		samples[i] = b.encoder.EncodeText(ComposeUserText(user))
	}

	textDim := b.dim - NumericWidth
	if textDim <= 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: dimension too small for numeric block")
	}
	if textDim > b.encoder.Dimension {
		textDim = b.encoder.Dimension
	}
	proj, err := FitProjection(samples, textDim)
	if err != nil {
		return nil, err
	}

	rows, err := b.numericRows(ctx, users)
	if err != nil {
		return nil, err
	}
	scaler, err := FitScaler(rows)
	if err != nil {
		return nil, err
	}

	vectors := make(map[int64][]float64, len(users))
	for i, user := range users {
		text, err := proj.Transform(samples[i])
		if err != nil {
			return nil, err
		}
		text = padTo(text, b.dim-NumericWidth)

		vec := make([]float64, 0, b.dim)
		vec = append(vec, text...)
		vec = append(vec, scaler.Transform(rows[i])...)
		vectors[user.ID] = vec
	}
	return vectors, nil
}

// numericRows 取用户数值行；配置了 NumericSource 时优先用其返回值，
// 未覆盖到的用户回落到 Catalog 快照字段。
func (b *Builder) numericRows(ctx context.Context, users []*core.User) ([][]float64, error) {
	var remote map[int64][]float64
	if b.numeric != nil {
		var err error
		remote, err = b.numeric.NumericRows(ctx, users)
		if err != nil {
			return nil, err
		}
	}

	rows := make([][]float64, len(users))
	for i, user := range users {
		if row, ok := remote[user.ID]; ok && len(row) == NumericWidth {
			rows[i] = row
			continue
		}
		rows[i] = numericRow(user)
	}
	return rows, nil
}

func numericRow(user *core.User) []float64 {
	return []float64{
		float64(user.FollowerCount),
		float64(user.FollowingCount),
		float64(user.PostCount),
		float64(user.DailyLoginStreak),
		user.HourlyRate,
		user.Latitude,
		user.Longitude,
	}
}

// padTo 右侧补零到目标长度（编码维度低于目标维度时）。
func padTo(vec []float64, dim int) []float64 {
	if len(vec) >= dim {
		return vec[:dim]
	}
	out := make([]float64, dim)
	copy(out, vec)
	return out
}
