// Package server 提供推荐引擎的 HTTP 服务层。
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/engine"
)

// Server 是 feed 服务的 HTTP 门面。
type Server struct {
	engine *engine.Engine
	logger logrus.FieldLogger
	router chi.Router
}

// Option 是 Server 的函数式配置项。
type Option func(*Server)

// WithLogger 指定日志器。
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) { s.logger = logger }
}

// New 创建 HTTP 服务。
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine: eng,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.accessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/feed", s.handleFeed)
		r.Post("/refresh", s.handleRefresh)
	})

	s.router = r
	return s
}

// Router 返回可挂载的 http.Handler。
func (s *Server) Router() http.Handler { return s.router }

// handleFeed 服务 GET /v1/feed。
//
// 查询参数：
//   - username: 请求主体（可选，与 mood 至少给一个）
//   - mood: 冷启动情绪（未知用户时必填）
//   - category: 类目/项目过滤（可选）
//   - page / page_size: 分页
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &engine.Request{
		Username: q.Get("username"),
		Mood:     q.Get("mood"),
		Category: q.Get("category"),
		Page:     queryInt(q.Get("page"), 1),
		PageSize: queryInt(q.Get("page_size"), 0),
	}

	resp, err := s.engine.GetRecommendations(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleRefresh 服务 POST /v1/refresh：全量重建快照。
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Refresh(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestID 为每个请求生成追踪 id，回写响应头。
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// accessLog 记录访问日志。
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"elapsed":    time.Since(started).String(),
			"request_id": ww.Header().Get("X-Request-ID"),
		}).Info("http request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("http: encode response")
	}
}

// writeError 将领域错误映射到 HTTP 状态码。
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := core.ErrorCodeInternalError

	if domainErr := core.GetDomainError(err); domainErr != nil {
		code = domainErr.Code
		switch domainErr.Code {
		case core.ErrorCodeNotFound:
			status = http.StatusNotFound
		case core.ErrorCodeInvalidInput:
			status = http.StatusBadRequest
		case core.ErrorCodeStaleData:
			status = http.StatusServiceUnavailable
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("http: request failed")
	}
	s.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
