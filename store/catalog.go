package store

import (
	"context"
	"strings"
	"sync"

	"github.com/empowerverse/feedkit/core"
)

// MemoryCatalog 是内存实现的 Catalog，用于测试/开发/示例。
// 生产环境通常由上游数据库或 API 同步层实现 core.Catalog。
type MemoryCatalog struct {
	mu           sync.RWMutex
	users        map[int64]*core.User
	byUsername   map[string]*core.User
	posts        map[int64]*core.Post
	interactions []*core.Interaction
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		users:      make(map[int64]*core.User),
		byUsername: make(map[string]*core.User),
		posts:      make(map[int64]*core.Post),
	}
}

// AddUser 写入（或覆盖）一个用户。
func (c *MemoryCatalog) AddUser(user *core.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = user
	c.byUsername[strings.ToLower(user.Username)] = user
}

// AddPost 写入（或覆盖）一条内容。
func (c *MemoryCatalog) AddPost(post *core.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[post.ID] = post
}

// AddInteraction 追加一条交互事实。
func (c *MemoryCatalog) AddInteraction(iv *core.Interaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interactions = append(c.interactions, iv)
}

func (c *MemoryCatalog) UserByUsername(ctx context.Context, username string) (*core.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	user, ok := c.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, core.ErrCatalogNotFound
	}
	return user, nil
}

func (c *MemoryCatalog) PostByID(ctx context.Context, id int64) (*core.Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	post, ok := c.posts[id]
	if !ok {
		return nil, core.ErrCatalogNotFound
	}
	return post, nil
}

func (c *MemoryCatalog) AllUsers(ctx context.Context) ([]*core.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*core.User, 0, len(c.users))
	for _, u := range c.users {
		out = append(out, u)
	}
	return out, nil
}

func (c *MemoryCatalog) AllPosts(ctx context.Context) ([]*core.Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*core.Post, 0, len(c.posts))
	for _, p := range c.posts {
		out = append(out, p)
	}
	return out, nil
}

func (c *MemoryCatalog) Interactions(ctx context.Context) ([]*core.Interaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*core.Interaction, len(c.interactions))
	copy(out, c.interactions)
	return out, nil
}

var _ core.Catalog = (*MemoryCatalog)(nil)
