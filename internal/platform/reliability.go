package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xela07ax/approval-relay/internal/infra"
)

// ReliabilityWrapper ограничивает частоту вызовов API и быстро отказывает, когда платформа лежит.
// Повторов нет: любой отказ терминален для текущего события.
type ReliabilityWrapper struct {
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
	metrics *Metrics
}

func NewReliabilityWrapper(cfg infra.SlackConfig, metrics *Metrics, logger *zap.Logger) *ReliabilityWrapper {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	maxFailures := cfg.CBMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "slack-api",
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Ответ ok:false (invalid_trigger_id, channel_not_found...) — это отказ запроса, а не платформы
		IsSuccessful: func(err error) bool {
			var apiErr slack.SlackErrorResponse
			return err == nil || errors.As(err, &apiErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.Set(float64(to))
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &ReliabilityWrapper{
		cb:      cb,
		limiter: rate.NewLimiter(limit, burst),
		timeout: cfg.CallTimeout,
		metrics: metrics,
	}
}

// Do выполняет один вызов API через лимитер и предохранитель.
func (w *ReliabilityWrapper) Do(ctx context.Context, method string, call func(ctx context.Context) error) error {
	start := time.Now()
	status := "ok"
	defer func() {
		w.metrics.CallDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
	}()

	// 1. Rate Limiter
	if err := w.limiter.Wait(ctx); err != nil {
		status = "throttled"
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	// 2. Circuit Breaker
	_, err := w.cb.Execute(func() (interface{}, error) {
		tCtx, cancel := w.withTimeout(ctx)
		defer cancel()
		return nil, call(tCtx)
	})
	if err != nil {
		status = "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "rejected"
		}
		return err
	}
	return nil
}

func (w *ReliabilityWrapper) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.timeout)
}
