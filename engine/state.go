package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/feature"
	"github.com/empowerverse/feedkit/recall"
	"github.com/empowerverse/feedkit/vector"
)

// snapshot 是一次构建的全部只读产物。
// 刷新通过整体重建 + 原子指针替换完成：请求侧拿到的快照
// 在一次请求内自洽，不会看到半新半旧的索引。
type snapshot struct {
	builtAt time.Time

	userVectors map[int64][]float64
	postVectors map[int64][]float64

	hybridIndex  *vector.FlatIndex
	contentIndex *vector.FlatIndex

	// encoder 本次构建拟合冻结的查询编码器，与 contentIndex 同空间
	encoder *feature.QueryEncoder

	posts       map[int64]*core.Post
	usersByName map[string]*core.User

	// byCategory 类目名（小写）-> 可投放内容 id（升序）
	byCategory map[string][]int64

	// seen 用户 -> 交互过的内容集合（任何类型的交互都算）
	seen map[int64]map[int64]struct{}

	// contentOnly 表示协同分解缺席（矩阵为空），全体走内容向量
	contentOnly bool
}

// UserVector 实现 recall.SnapshotView。
func (s *snapshot) UserVector(userID int64) ([]float64, bool) {
	vec, ok := s.userVectors[userID]
	return vec, ok
}

// HybridIndex 实现 recall.SnapshotView。
func (s *snapshot) HybridIndex() core.VectorIndex { return s.hybridIndex }

// ContentIndex 实现 recall.SnapshotView。
func (s *snapshot) ContentIndex() core.VectorIndex { return s.contentIndex }

// HybridPostVector 实现 recall.SnapshotView。
func (s *snapshot) HybridPostVector(postID int64) ([]float64, bool) {
	vec, ok := s.postVectors[postID]
	return vec, ok
}

// Encoder 实现 recall.SnapshotView。
func (s *snapshot) Encoder() recall.QueryEncoder {
	if s.encoder == nil {
		return nil
	}
	return s.encoder
}

// postMeta 返回候选的规则求值元信息；id 不在快照时返回 nil。
func (s *snapshot) postMeta(id int64) map[string]any {
	post, ok := s.posts[id]
	if !ok {
		return nil
	}
	return map[string]any{
		"title":                       post.Title,
		"category_id":                 post.CategoryID,
		"category_name":               post.CategoryName,
		"project_code":                post.ProjectCode,
		"is_available_in_public_feed": post.IsAvailableInPublicFeed,
		"is_locked":                   post.IsLocked,
		"popularity":                  post.PopularityScore(),
	}
}

// indexCategories 建立类目名/项目编码到内容的倒排。
func indexCategories(posts []*core.Post) map[string][]int64 {
	byCategory := make(map[string][]int64)
	add := func(key string, id int64) {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		byCategory[key] = append(byCategory[key], id)
	}
	for _, post := range posts {
		add(post.CategoryName, post.ID)
		if !strings.EqualFold(post.ProjectCode, post.CategoryName) {
			add(post.ProjectCode, post.ID)
		}
	}
	for key := range byCategory {
		ids := byCategory[key]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return byCategory
}

// indexSeen 建立用户 -> 交互过的内容 倒排（view 也算 seen）。
func indexSeen(interactions []*core.Interaction) map[int64]map[int64]struct{} {
	seen := make(map[int64]map[int64]struct{})
	for _, iv := range interactions {
		set, ok := seen[iv.UserID]
		if !ok {
			set = make(map[int64]struct{})
			seen[iv.UserID] = set
		}
		set[iv.PostID] = struct{}{}
	}
	return seen
}
