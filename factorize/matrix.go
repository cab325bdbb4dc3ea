package factorize

import (
	"sort"

	"github.com/empowerverse/feedkit/core"
)

// InteractionMatrix 是稀疏的 用户×内容 交互权重矩阵。
//
// 构建规则：
//   - 同一 (user, post, kind) 的重复事件只计一次
//   - 不同 kind 的权重独立累加到同一格
//   - view 权重为 0，不产生协同信号
//   - 全零行（只看不互动的用户）整行剔除
//   - 行列按 id 升序，保证同一批输入构建结果确定
type InteractionMatrix struct {
	// UserIDs 行序（升序）
	UserIDs []int64

	// PostIDs 列序（升序）
	PostIDs []int64

	// Cells 稀疏权重：行下标 -> 列下标 -> 权重
	Cells map[int]map[int]float64

	userIndex map[int64]int
	postIndex map[int64]int
}

// BuildMatrix 从交互事实流构建矩阵。
// 剔除全零行后不足两行时返回 EMPTY_MATRIX（单用户无法分解出有意义的因子）。
func BuildMatrix(interactions []core.Interaction) (*InteractionMatrix, error) {
	type cellKey struct {
		user int64
		post int64
	}
	type dedupKey struct {
		user int64
		post int64
		kind core.InteractionKind
	}

	seen := make(map[dedupKey]struct{})
	weights := make(map[cellKey]float64)

	for i := range interactions {
		iv := &interactions[i]
		w := iv.Weight()
		if w == 0 {
			continue
		}
		dk := dedupKey{iv.UserID, iv.PostID, iv.Kind}
		if _, dup := seen[dk]; dup {
			continue
		}
		seen[dk] = struct{}{}
		weights[cellKey{iv.UserID, iv.PostID}] += w
	}

	userSet := make(map[int64]struct{})
	postSet := make(map[int64]struct{})
	for k := range weights {
		userSet[k.user] = struct{}{}
		postSet[k.post] = struct{}{}
	}

	if len(userSet) < 2 {
		return nil, core.NewDomainError(core.ModuleFactorize, core.ErrorCodeEmptyMatrix,
			"factorize: interaction matrix needs at least two active users")
	}

	m := &InteractionMatrix{
		UserIDs:   sortedIDs(userSet),
		PostIDs:   sortedIDs(postSet),
		Cells:     make(map[int]map[int]float64),
		userIndex: make(map[int64]int),
		postIndex: make(map[int64]int),
	}
	for i, id := range m.UserIDs {
		m.userIndex[id] = i
	}
	for j, id := range m.PostIDs {
		m.postIndex[id] = j
	}

	for k, w := range weights {
		row := m.userIndex[k.user]
		col := m.postIndex[k.post]
		cells, ok := m.Cells[row]
		if !ok {
			cells = make(map[int]float64)
			m.Cells[row] = cells
		}
		cells[col] = w
	}
	return m, nil
}

// Rows 返回行数（活跃用户数）。
func (m *InteractionMatrix) Rows() int { return len(m.UserIDs) }

// Cols 返回列数（被互动过的内容数）。
func (m *InteractionMatrix) Cols() int { return len(m.PostIDs) }

// Weight 返回 (user, post) 格的聚合权重，不存在时为 0。
func (m *InteractionMatrix) Weight(userID, postID int64) float64 {
	row, ok := m.userIndex[userID]
	if !ok {
		return 0
	}
	col, ok := m.postIndex[postID]
	if !ok {
		return 0
	}
	return m.Cells[row][col]
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
