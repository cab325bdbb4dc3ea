package engine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/embedding"
	"github.com/empowerverse/feedkit/factorize"
	"github.com/empowerverse/feedkit/feature"
	"github.com/empowerverse/feedkit/filter"
	"github.com/empowerverse/feedkit/model"
	"github.com/empowerverse/feedkit/pipeline"
	"github.com/empowerverse/feedkit/rank"
	"github.com/empowerverse/feedkit/recall"
	"github.com/empowerverse/feedkit/rerank"
)

// Options 是引擎配置。
type Options struct {
	// Dim 内容向量维度
	Dim int

	// Fusion 融合权重（内容/协同）
	Fusion embedding.Options

	// ALS 协同分解超参数
	ALS factorize.ALSOptions

	// CacheTTL 结果缓存生存期（秒）
	CacheTTL int

	// TopK 暖路径召回截断
	TopK int

	// PoolSize/FinalK 两段式类目检索的池大小与最终截断
	PoolSize int
	FinalK   int

	// PageSize 默认分页大小
	PageSize int

	// EnrichTimeout 单条详情查询超时
	EnrichTimeout time.Duration

	// MoodCategories mood -> 类目 注册表（nil 用默认表）
	MoodCategories map[string][]string

	// MoodSeed mood feed 打散种子（0 表示随机）
	MoodSeed int64

	// AvailabilityRule 候选可投放的 CEL 规则
	AvailabilityRule string
}

// DefaultOptions 返回默认引擎配置。
func DefaultOptions() Options {
	return Options{
		Dim:              128,
		Fusion:           embedding.DefaultOptions(),
		ALS:              factorize.DefaultALSOptions(),
		CacheTTL:         DefaultCacheTTL,
		TopK:             100,
		PoolSize:         500,
		FinalK:           100,
		PageSize:         20,
		EnrichTimeout:    DefaultEnrichTimeout,
		AvailabilityRule: "item.is_available_in_public_feed && !item.is_locked",
	}
}

// Engine 是推荐引擎门面：
// 批量构建（特征 -> 分解 -> 融合 -> 索引）+ 请求服务（召回 -> 过滤 -> 排序 -> 分页 -> 详情）。
type Engine struct {
	catalog  core.Catalog
	store    core.KeyValueStore
	builder  *feature.Builder
	enricher Enricher
	cache    *Cache
	logger   logrus.FieldLogger
	opts     Options

	mood   *recall.Mood
	scorer model.Scorer

	warm     *pipeline.Pipeline
	category *pipeline.Pipeline
	cold     *pipeline.Pipeline

	// buildMu 串行化 Build/Refresh；请求侧只读原子指针，无锁
	buildMu sync.Mutex
	snap    atomic.Pointer[snapshot]
}

// Option 是 Engine 的函数式配置项。
type Option func(*Engine)

// WithOptions 覆盖引擎配置。
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithLogger 指定日志器。
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithEnricher 指定外部详情服务（如上游内容 API 客户端）。
func WithEnricher(enricher Enricher) Option {
	return func(e *Engine) { e.enricher = enricher }
}

// WithFeatureBuilder 指定特征构建器（自定义编码器/Feast 数值源时用）。
func WithFeatureBuilder(builder *feature.Builder) Option {
	return func(e *Engine) { e.builder = builder }
}

// WithScorer 指定冷启动打分模型（默认用确定性初始化的 MLP）。
func WithScorer(scorer model.Scorer) Option {
	return func(e *Engine) { e.scorer = scorer }
}

// New 创建推荐引擎。catalog 提供实体与交互，kv 承载缓存与热度榜。
func New(catalog core.Catalog, kv core.KeyValueStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog: catalog,
		store:   kv,
		logger:  logrus.StandardLogger(),
		opts:    DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.builder == nil {
		e.builder = feature.NewBuilder(model.NewTextEncoder(nil, 384), e.opts.Dim)
	}
	e.cache = NewCache(kv, e.opts.CacheTTL)

	moodOpts := []recall.MoodOption{}
	if e.opts.MoodCategories != nil {
		moodOpts = append(moodOpts, recall.WithMoodCategories(e.opts.MoodCategories))
	}
	if e.opts.MoodSeed != 0 {
		moodOpts = append(moodOpts, recall.WithMoodSeed(e.opts.MoodSeed))
	}
	e.mood = recall.NewMood(e, moodOpts...)

	rule, err := filter.NewRuleFilter(e.opts.AvailabilityRule, e.hydrateMeta)
	if err != nil {
		return nil, err
	}
	availability := &filter.FilterNode{Filters: []filter.Filter{rule}}

	hot := recall.NewHot(kv, e.opts.TopK)

	hybrid := recall.NewHybrid(e, e.opts.TopK)
	twoStage := recall.NewTwoStage(e, e)
	twoStage.PoolSize = e.opts.PoolSize
	twoStage.FinalK = e.opts.FinalK

	e.warm = &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.SourceNode{Source: hybrid},
		filter.NewSeenNode(e),
		availability,
		&rerank.TopN{N: e.opts.TopK},
		rerank.NewBackfill(hot, e),
	}}

	e.category = &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.SourceNode{Source: twoStage},
		filter.NewSeenNode(e),
		availability,
		&rerank.TopN{N: e.opts.FinalK},
		rerank.NewBackfill(hot, e),
	}}

	e.cold = &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.SourceNode{Source: e.mood},
		availability,
		rank.NewMoodNode(e, e.scorer, e.opts.Dim),
		rerank.NewBackfill(hot, e),
	}}

	return e, nil
}

// Snapshot 实现 recall.SnapshotProvider。
func (e *Engine) Snapshot() (recall.SnapshotView, error) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeStaleData,
			"engine: snapshot not built yet")
	}
	return snap, nil
}

// SeenPosts 实现 recall.SeenProvider / filter.SeenStore。
func (e *Engine) SeenPosts(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, nil
	}
	return snap.seen[userID], nil
}

// PostIDsByCategories 实现 recall.MoodCatalog。
func (e *Engine) PostIDsByCategories(ctx context.Context, categories []string) ([]int64, error) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeStaleData,
			"engine: snapshot not built yet")
	}

	dedup := make(map[int64]struct{})
	var ids []int64
	for _, category := range categories {
		for _, id := range snap.byCategory[strings.ToLower(strings.TrimSpace(category))] {
			if _, ok := dedup[id]; ok {
				continue
			}
			dedup[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (e *Engine) hydrateMeta(id int64) map[string]any {
	snap := e.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.postMeta(id)
}
