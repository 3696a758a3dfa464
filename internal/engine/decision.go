package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xela07ax/approval-relay/internal/domain"
)

// Decide сообщает инициатору исход. Повторный клик по тем же кнопкам даст повторное сообщение:
// обработчик одноразовый и ничего не помнит.
func (r *Relay) Decide(ctx context.Context, d domain.Decision) error {
	if err := r.platform.PostMessage(ctx, d.RequesterID, d.ResultText()); err != nil {
		return fmt.Errorf("%w: decision to %s: %w", domain.ErrDelivery, d.RequesterID, err)
	}

	r.metrics.DecisionsTotal.WithLabelValues(string(d.Outcome)).Inc()
	r.log(ctx).Info("decision delivered",
		zap.String("requester_id", d.RequesterID),
		zap.String("approver_id", d.ApproverID),
		zap.String("outcome", string(d.Outcome)))

	if r.publisher != nil {
		r.goBackground(ctx, func(ctx context.Context) {
			if err := r.publisher.Publish(ctx, d); err != nil {
				r.log(ctx).Warn("decision signal delivery failed", zap.Error(err))
			}
		})
	}
	return nil
}
