package core

import "time"

// User 是上游同步下来的用户记录。
// 文本字段进入内容向量，数值字段进入归一化数值块。
type User struct {
	ID       int64
	Username string

	Bio      string
	Role     string
	UserType string

	FollowerCount   int
	FollowingCount  int
	PostCount       int
	DailyLoginStreak int
	HourlyRate      float64
	Latitude        float64
	Longitude       float64
}

// Post 是上游同步下来的内容记录。
// Summary/Topic 是任意嵌套的 JSON 负载，由 feature 包递归展平。
type Post struct {
	ID    int64
	Title string
	Slug  string
	Tags  []string

	CategoryID   int64
	CategoryName string

	// ProjectCode 是话题/项目分组编码，用于类目过滤。
	ProjectCode string

	// Summary 与 Topic 保持原始嵌套结构（map/list/scalar）。
	Summary any
	Topic   any

	IsAvailableInPublicFeed bool
	IsLocked                bool

	ViewCount    int
	UpvoteCount  int
	AverageRating float64
	ShareCount   int
}

// PopularityScore 是固定权重的综合热度分：
// 0.1*views + 0.3*upvotes + 0.2*rating + 0.4*shares。
func (p *Post) PopularityScore() float64 {
	return 0.1*float64(p.ViewCount) +
		0.3*float64(p.UpvoteCount) +
		0.2*p.AverageRating +
		0.4*float64(p.ShareCount)
}

// InteractionKind 是交互类型。
type InteractionKind string

const (
	InteractionView    InteractionKind = "view"
	InteractionLike    InteractionKind = "like"
	InteractionInspire InteractionKind = "inspire"
	InteractionRating  InteractionKind = "rating"
)

// Interaction 是一条追加式的交互事实，不可变。
// 同一 (user, post, kind) 的重复事件只计一次权重；
// 不同 kind 各自独立贡献到聚合权重。
type Interaction struct {
	UserID int64
	PostID int64
	Kind   InteractionKind

	// RatingPercent 仅 rating 类型有效，取值 [0,100]。
	RatingPercent float64

	At time.Time
}

// Weight 返回该交互对协同矩阵的权重贡献。
// view 不产生协同信号（只有 like/inspire/rating 参与分解）。
func (iv *Interaction) Weight() float64 {
	switch iv.Kind {
	case InteractionLike:
		return 1.5
	case InteractionInspire:
		return 1.5
	case InteractionRating:
		return 2.0 * iv.RatingPercent / 100.0
	default:
		return 0
	}
}

// PostDetail 是响应 enrichment 的最小详情对象。
type PostDetail struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}
