// Package engine связывает три независимых вебхука (slash-команда, отправка формы, клик по кнопке)
// в один жизненный цикл запроса на апрув. Между вызовами нет общего состояния:
// ID инициатора едет внутри value кнопок и читается обратно без изменений.
package engine

import (
	"context"
	"sync"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/xela07ax/approval-relay/internal/domain"
)

// Platform — исходящие вызовы чат-платформы, которые нужны оркестратору.
type Platform interface {
	ListUsers(ctx context.Context) ([]slack.User, error)
	OpenForm(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	PostMessage(ctx context.Context, channel, text string, blocks ...slack.Block) error
}

// DecisionPublisher транслирует доставленные решения наружу. Отказ публикации не влияет на ответ вебхуку.
type DecisionPublisher interface {
	Publish(ctx context.Context, d domain.Decision) error
}

type Relay struct {
	platform  Platform
	publisher DecisionPublisher // nil — трансляция выключена
	metrics   *Metrics
	logger    *zap.Logger

	// Фоновые задачи, пережившие свой HTTP-ответ
	wg sync.WaitGroup
}

func NewRelay(p Platform, pub DecisionPublisher, metrics *Metrics, logger *zap.Logger) *Relay {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Relay{
		platform:  p,
		publisher: pub,
		metrics:   metrics,
		logger:    logger.Named("relay"),
	}
}

// goBackground запускает задачу, отвязанную от отмены входящего запроса.
// Trace-ID остается в контексте.
func (r *Relay) goBackground(ctx context.Context, task func(ctx context.Context)) {
	bgCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		task(bgCtx)
	}()
}

// Wait дожидается фоновых задач или отмены ctx (graceful shutdown).
// По таймауту вспомогательная горутина остается висеть на wg.Wait до конца
// последней задачи; Wait вызывается один раз при остановке процесса, утечка не копится.
func (r *Relay) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Relay) log(ctx context.Context) *zap.Logger {
	return r.logger.With(zap.String("trace_id", TraceID(ctx)))
}
