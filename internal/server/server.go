package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xela07ax/approval-relay/internal/engine"
	"github.com/xela07ax/approval-relay/internal/infra"
	"github.com/xela07ax/approval-relay/internal/infra/auth"
)

// WebhookHandlers — обработчики двух вебхуков платформы.
type WebhookHandlers interface {
	HandleCommand(w http.ResponseWriter, r *http.Request)
	HandleInteraction(w http.ResponseWriter, r *http.Request)
}

type RelayServer struct {
	router   *chi.Mux
	logger   *zap.Logger
	cfg      *infra.Config
	handlers WebhookHandlers
	gatherer prometheus.Gatherer

	ready atomic.Bool
}

// NewRelayServer собирает роутер релея со всеми зависимостями
func NewRelayServer(cfg *infra.Config, logger *zap.Logger, h WebhookHandlers, gatherer prometheus.Gatherer) *RelayServer {
	s := &RelayServer{
		router:   chi.NewRouter(),
		logger:   logger.Named("http"),
		cfg:      cfg,
		handlers: h,
		gatherer: gatherer,
	}

	s.routes()
	return s
}

func (s *RelayServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware ---
	r.Use(middleware.RealIP)
	r.Use(engine.TracingMiddleware)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	// --- 2. Служебные роуты ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ready", s.readyz)
	if s.cfg.Metrics.Enabled && s.gatherer != nil {
		r.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// --- 3. Вебхуки платформы (проверка подписи) ---
	r.Route("/slack", func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.cfg.Slack.SigningSecret, s.logger))

		r.Post("/commands", s.handlers.HandleCommand)
		r.Post("/actions", s.handlers.HandleInteraction)
	})
}

// SetReady переключает readiness после проверки кредов платформы.
func (s *RelayServer) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *RelayServer) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.ready.Load() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}

func (s *RelayServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			zap.String("trace_id", engine.TraceID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// ServeHTTP позволяет использовать RelayServer как стандартный http.Handler
func (s *RelayServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
