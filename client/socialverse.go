// Package client 提供上游内容平台 API 的客户端。
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/empowerverse/feedkit/core"
)

// Socialverse 是上游内容 API 的详情客户端（engine.Enricher 实现）。
//
// 详情接口在引擎的请求热路径上，用熔断器隔离上游抖动：
// 连续失败达到阈值后快速失败，由引擎降级到占位详情。
type Socialverse struct {
	baseURL string
	token   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*core.PostDetail]
	logger  logrus.FieldLogger
}

// SocialverseOption 是客户端的函数式配置项。
type SocialverseOption func(*Socialverse)

// WithHTTPClient 指定底层 HTTP 客户端。
func WithHTTPClient(client *http.Client) SocialverseOption {
	return func(c *Socialverse) { c.client = client }
}

// WithLogger 指定日志器。
func WithLogger(logger logrus.FieldLogger) SocialverseOption {
	return func(c *Socialverse) { c.logger = logger }
}

// NewSocialverse 创建详情客户端。token 通过 Flic-Token 头传递。
func NewSocialverse(baseURL, token string, opts ...SocialverseOption) *Socialverse {
	c := &Socialverse{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 2 * time.Second},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[*core.PostDetail](gobreaker.Settings{
		Name:        "socialverse",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("client: breaker state changed")
		},
	})
	return c
}

// postPayload 是详情接口的应答体。
type postPayload struct {
	Title    string `json:"title"`
	Category struct {
		Name string `json:"name"`
	} `json:"category"`
}

// PostDetail 实现 engine.Enricher。
// 上游返回 404 时报 NOT_FOUND（调用方应剔除该条目）；
// 404 是明确应答，不计入熔断失败。
func (c *Socialverse) PostDetail(ctx context.Context, id int64) (*core.PostDetail, error) {
	notFound := false
	detail, err := c.breaker.Execute(func() (*core.PostDetail, error) {
		url := fmt.Sprintf("%s/posts/%d", c.baseURL, id)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.token != "" {
			req.Header.Set("Flic-Token", c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			notFound = true
			return nil, nil
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("client: post detail status %d", resp.StatusCode)
		}

		var payload postPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("client: decode post detail: %w", err)
		}

		detail := &core.PostDetail{Title: payload.Title, Category: payload.Category.Name}
		if detail.Title == "" {
			detail.Title = fmt.Sprintf("Post %d", id)
		}
		if detail.Category == "" {
			detail.Category = "Unknown"
		}
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound,
			fmt.Sprintf("client: post %d not found upstream", id))
	}
	return detail, nil
}
