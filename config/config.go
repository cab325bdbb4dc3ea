// Package config 提供引擎配置加载与配置驱动的 Pipeline 组装。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/empowerverse/feedkit/embedding"
	"github.com/empowerverse/feedkit/engine"
	"github.com/empowerverse/feedkit/factorize"
)

// EngineConfig 是 YAML 配置文件的顶层结构。
type EngineConfig struct {
	// Embedding 向量构建配置
	Embedding struct {
		Dim           int     `yaml:"dim"`
		ContentWeight float64 `yaml:"content_weight"`
		CollabWeight  float64 `yaml:"collab_weight"`
	} `yaml:"embedding"`

	// ALS 协同分解超参数
	ALS struct {
		Factors        int     `yaml:"factors"`
		Regularization float64 `yaml:"regularization"`
		Iterations     int     `yaml:"iterations"`
		Alpha          float64 `yaml:"alpha"`
	} `yaml:"als"`

	// Retrieval 检索配置
	Retrieval struct {
		TopK     int `yaml:"top_k"`
		PoolSize int `yaml:"pool_size"`
		FinalK   int `yaml:"final_k"`
		PageSize int `yaml:"page_size"`
	} `yaml:"retrieval"`

	// Cache 结果缓存
	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	// Moods mood -> 类目 注册表
	Moods map[string][]string `yaml:"moods"`

	// Redis 可选的 Redis 后端（为空用内存存储）
	Redis struct {
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`

	// Server HTTP 服务配置
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// Socialverse 上游内容 API（详情 enrichment）
	Socialverse struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"socialverse"`

	// Feast 在线特征（可选）
	Feast struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Project string `yaml:"project"`
	} `yaml:"feast"`

	// EnrichTimeoutMS 单条详情查询超时（毫秒）
	EnrichTimeoutMS int `yaml:"enrich_timeout_ms"`
}

// Load 从 YAML 文件加载引擎配置。
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// EngineOptions 把文件配置转成 engine.Options，缺省字段用引擎默认值。
func (c *EngineConfig) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()

	if c.Embedding.Dim > 0 {
		opts.Dim = c.Embedding.Dim
	}
	if c.Embedding.ContentWeight > 0 || c.Embedding.CollabWeight > 0 {
		opts.Fusion = embedding.Options{
			ContentWeight: c.Embedding.ContentWeight,
			CollabWeight:  c.Embedding.CollabWeight,
		}
	}

	if c.ALS.Factors > 0 {
		opts.ALS = factorize.ALSOptions{
			Factors:        c.ALS.Factors,
			Regularization: c.ALS.Regularization,
			Iterations:     c.ALS.Iterations,
			Alpha:          c.ALS.Alpha,
			Seed:           factorize.DefaultALSOptions().Seed,
		}
	}

	if c.Retrieval.TopK > 0 {
		opts.TopK = c.Retrieval.TopK
	}
	if c.Retrieval.PoolSize > 0 {
		opts.PoolSize = c.Retrieval.PoolSize
	}
	if c.Retrieval.FinalK > 0 {
		opts.FinalK = c.Retrieval.FinalK
	}
	if c.Retrieval.PageSize > 0 {
		opts.PageSize = c.Retrieval.PageSize
	}

	if c.Cache.TTLSeconds > 0 {
		opts.CacheTTL = c.Cache.TTLSeconds
	}
	if len(c.Moods) > 0 {
		opts.MoodCategories = c.Moods
	}
	if c.EnrichTimeoutMS > 0 {
		opts.EnrichTimeout = time.Duration(c.EnrichTimeoutMS) * time.Millisecond
	}
	return opts
}
