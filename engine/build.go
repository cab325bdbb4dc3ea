package engine

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/embedding"
	"github.com/empowerverse/feedkit/factorize"
	"github.com/empowerverse/feedkit/recall"
	"github.com/empowerverse/feedkit/vector"
)

// Build 全量重建快照：
//
//	加载实体与交互 -> 构建内容向量 -> 协同分解 -> 融合 -> 建索引 -> 原子替换
//
// 矩阵为空（互动用户不足）时记录告警并全局退化为 content-only 融合，
// 不视为构建失败。Build 串行执行；期间请求继续命中旧快照。
func (e *Engine) Build(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	started := time.Now()

	var (
		users        []*core.User
		posts        []*core.Post
		interactions []*core.Interaction
	)
	eg, loadCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		users, err = e.catalog.AllUsers(loadCtx)
		return err
	})
	eg.Go(func() (err error) {
		posts, err = e.catalog.AllPosts(loadCtx)
		return err
	})
	eg.Go(func() (err error) {
		interactions, err = e.catalog.Interactions(loadCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	// 排序固定快照内的插入顺序，保证同一批数据重建结果一致
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })

	postContent, queryEncoder, err := e.builder.BuildPostVectors(ctx, posts)
	if err != nil {
		return err
	}
	userContent, err := e.builder.BuildUserVectors(ctx, users)
	if err != nil {
		return err
	}

	fact, contentOnly, err := e.factorizeInteractions(ctx, interactions)
	if err != nil {
		return err
	}

	set := embedding.NewSet(userContent, postContent, fact, e.opts.Fusion)

	order := make([]int64, len(posts))
	for i, post := range posts {
		order[i] = post.ID
	}

	snap := &snapshot{
		builtAt:      time.Now(),
		userVectors:  set.Users,
		postVectors:  set.Posts,
		hybridIndex:  vector.Build(set.Posts, order),
		contentIndex: vector.Build(set.ContentPosts, order),
		encoder:      queryEncoder,
		posts:        make(map[int64]*core.Post, len(posts)),
		usersByName:  make(map[string]*core.User, len(users)),
		byCategory:   indexCategories(posts),
		seen:         indexSeen(interactions),
		contentOnly:  contentOnly,
	}
	for _, post := range posts {
		snap.posts[post.ID] = post
	}
	for _, user := range users {
		snap.usersByName[strings.ToLower(user.Username)] = user
	}

	if err := e.rebuildHotBoard(ctx, posts); err != nil {
		return err
	}

	e.snap.Store(snap)

	e.logger.WithFields(map[string]any{
		"users":        len(users),
		"posts":        len(posts),
		"interactions": len(interactions),
		"content_only": contentOnly,
		"elapsed":      time.Since(started).String(),
	}).Info("engine: snapshot built")
	return nil
}

// Refresh 重建快照（Build 的语义别名，HTTP 管理接口用）。
func (e *Engine) Refresh(ctx context.Context) error {
	return e.Build(ctx)
}

// factorizeInteractions 构建交互矩阵并运行 ALS。
// 互动用户不足时返回 (nil, true, nil)，调用方走 content-only 退化。
func (e *Engine) factorizeInteractions(ctx context.Context, interactions []*core.Interaction) (*factorize.Factorization, bool, error) {
	rows := make([]core.Interaction, len(interactions))
	for i, iv := range interactions {
		rows[i] = *iv
	}

	matrix, err := factorize.BuildMatrix(rows)
	if err != nil {
		if core.IsEmptyMatrix(err) {
			e.logger.WithField("interactions", len(interactions)).
				Warn("engine: interaction matrix empty, falling back to content-only fusion")
			return nil, true, nil
		}
		return nil, false, err
	}

	fact, err := factorize.RunALS(ctx, matrix, e.opts.ALS)
	if err != nil {
		if core.IsEmptyMatrix(err) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return fact, false, nil
}

// rebuildHotBoard 用综合热度分全量重写热度榜 ZSet。
// 先删 key 再写入：上一次构建遗留的成员（此后被锁定/下架/删除的内容）
// 不会滞留在榜上被补位节点捞回。
func (e *Engine) rebuildHotBoard(ctx context.Context, posts []*core.Post) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Delete(ctx, recall.HotKey); err != nil {
		return err
	}
	for _, post := range posts {
		if !post.IsAvailableInPublicFeed || post.IsLocked {
			continue
		}
		member := strconv.FormatInt(post.ID, 10)
		if err := e.store.ZAdd(ctx, recall.HotKey, post.PopularityScore(), member); err != nil {
			return err
		}
	}
	return nil
}
