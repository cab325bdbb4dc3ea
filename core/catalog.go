package core

import "context"

// Catalog 是实体属性与交互日志的领域接口（外部协作方）。
//
// 引擎只把它当作 KV 查找 + 追加日志的只读视图：
//   - 批量构建时全量扫描 users/posts/interactions
//   - 请求时按 username 解析用户、按 id 取详情做 enrichment
//
// 实现可以是内存快照、关系库、图库或远端 API 的组合；
// 实现方必须容忍实体缺失（返回 ErrCatalogNotFound，而不是崩溃）。
type Catalog interface {
	// UserByUsername 按用户名解析用户；未知用户返回 ErrCatalogNotFound。
	UserByUsername(ctx context.Context, username string) (*User, error)

	// PostByID 按 id 取内容详情（enrichment 用）。
	PostByID(ctx context.Context, id int64) (*Post, error)

	// AllUsers 全量用户（批量构建）。
	AllUsers(ctx context.Context) ([]*User, error)

	// AllPosts 全量内容（批量构建）。
	AllPosts(ctx context.Context) ([]*Post, error)

	// Interactions 全量交互日志（追加式，只读）。
	Interactions(ctx context.Context) ([]*Interaction, error)
}

// ErrCatalogNotFound 表示实体不存在。
var ErrCatalogNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: entity not found")
