package recall

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/empowerverse/feedkit/core"
)

// MoodFeedCap 是 mood feed 的条数上限。
const MoodFeedCap = 20

// DefaultMoodCategories 是 mood -> 内容类目 的注册表。
var DefaultMoodCategories = map[string][]string{
	"Inspired":  {"Flic", "Gratitube"},
	"Motivated": {"Empowerverse", "SolTok"},
	"Calm":      {"Vible", "Wellness"},
	"Curious":   {"Tech", "Learn"},
}

// MoodCatalog 按类目名列出可投放的内容 id。
type MoodCatalog interface {
	PostIDsByCategories(ctx context.Context, categories []string) ([]int64, error)
}

// Mood 是冷启动召回源：把请求的情绪映射到注册类目，
// 汇集类目下的内容后随机打散，截断到 MoodFeedCap。
//
// 未注册的情绪返回 INVALID_INPUT（冷请求必须携带已注册的 mood）。
type Mood struct {
	Catalog    MoodCatalog
	Categories map[string][]string
	Cap        int

	rng *rand.Rand
}

// MoodOption 是 Mood 的函数式配置项。
type MoodOption func(*Mood)

// WithMoodSeed 固定打散种子（测试用）。
func WithMoodSeed(seed int64) MoodOption {
	return func(s *Mood) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithMoodCategories 覆盖 mood -> 类目 注册表。
func WithMoodCategories(categories map[string][]string) MoodOption {
	return func(s *Mood) { s.Categories = categories }
}

func NewMood(catalog MoodCatalog, opts ...MoodOption) *Mood {
	s := &Mood{
		Catalog:    catalog,
		Categories: DefaultMoodCategories,
		Cap:        MoodFeedCap,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Mood) Name() string { return "mood" }

// Resolve 把 mood 解析为类目列表（大小写不敏感）。
func (s *Mood) Resolve(mood string) ([]string, bool) {
	for name, categories := range s.Categories {
		if strings.EqualFold(name, mood) {
			return categories, true
		}
	}
	return nil, false
}

func (s *Mood) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	categories, ok := s.Resolve(rctx.Mood)
	if !ok {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"recall: mood not registered: "+rctx.Mood)
	}

	ids, err := s.Catalog.PostIDsByCategories(ctx, categories)
	if err != nil {
		return nil, err
	}

	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	limit := s.Cap
	if limit <= 0 {
		limit = MoodFeedCap
	}
	if len(shuffled) > limit {
		shuffled = shuffled[:limit]
	}

	items := make([]*core.Item, 0, len(shuffled))
	for i, id := range shuffled {
		it := core.NewItem(id)
		// mood feed 本身无个性化分数，用位置衰减分保持切片稳定
		it.Score = 1.0 - float64(i)/float64(limit+1)
		items = append(items, it)
	}
	return items, nil
}
