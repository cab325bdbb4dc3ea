package engine

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/empowerverse/feedkit/core"
)

// DefaultCacheTTL 是推荐结果缓存的默认生存期（秒）。
const DefaultCacheTTL = 3600

// Cache 是按 (subject, page, page_size, category) 维度的结果页缓存。
//
// 语义：
//   - TTL 内同一 key 返回字节一致的结果页（即使快照已刷新）
//   - TTL 过期后下一次请求落到新快照，自然反映最新索引
//   - 写失败只记录不报错，缓存是纯优化层
type Cache struct {
	store core.Store
	ttl   int
}

func NewCache(store core.Store, ttlSeconds int) *Cache {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultCacheTTL
	}
	return &Cache{store: store, ttl: ttlSeconds}
}

// Key 组装缓存 key。subject 是 username 或 "mood:<mood>"。
func (c *Cache) Key(subject string, page, pageSize int, category string) string {
	return fmt.Sprintf("feedkit:feed:%s:%d:%d:%s", subject, page, pageSize, category)
}

// Get 读取缓存页；未命中或反序列化失败返回 (nil, false)。
func (c *Cache) Get(ctx context.Context, key string) (*Response, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	resp.Cached = true
	return &resp, true
}

// Set 写入缓存页。
func (c *Cache) Set(ctx context.Context, key string, resp *Response) error {
	if c == nil || c.store == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, raw, c.ttl)
}
