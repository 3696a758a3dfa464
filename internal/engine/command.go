package engine

import (
	"context"
	"net/http"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// HandleCommand отвечает 200 сразу и безусловно: у вебхука короткий таймаут,
// а показ формы требует нескольких вызовов платформы.
func (r *Relay) HandleCommand(w http.ResponseWriter, req *http.Request) {
	cmd, err := slack.SlashCommandParse(req)

	// 1. Подтверждаем вебхук до любых вызовов платформы
	w.WriteHeader(http.StatusOK)

	logger := r.log(req.Context())
	if err != nil {
		r.metrics.WebhooksTotal.WithLabelValues("command", resultMalformed).Inc()
		logger.Warn("failed to parse slash command", zap.Error(err))
		return
	}
	if cmd.TriggerID == "" {
		r.metrics.WebhooksTotal.WithLabelValues("command", resultMalformed).Inc()
		logger.Warn("slash command without trigger_id", zap.String("user_id", cmd.UserID))
		return
	}
	r.metrics.WebhooksTotal.WithLabelValues("command", resultOK).Inc()

	// 2. Дальше — асинхронно; ошибки только в лог, пользователю показать их негде
	r.goBackground(req.Context(), func(ctx context.Context) {
		r.openApprovalForm(ctx, cmd.TriggerID, cmd.UserID)
	})
}

func (r *Relay) openApprovalForm(ctx context.Context, triggerID, requesterID string) {
	logger := r.log(ctx).With(zap.String("requester_id", requesterID))

	candidates, err := LookupApprovers(ctx, r.platform)
	if err != nil {
		r.metrics.BackgroundFailures.WithLabelValues("directory").Inc()
		logger.Error("error opening modal", zap.Error(err))
		return
	}
	if len(candidates) > maxSelectOptions {
		logger.Warn("approver list exceeds select option limit, platform may reject the form",
			zap.Int("count", len(candidates)))
	}

	if err := r.platform.OpenForm(ctx, triggerID, BuildApprovalForm(candidates)); err != nil {
		r.metrics.BackgroundFailures.WithLabelValues("form").Inc()
		logger.Error("error opening modal", zap.Error(err))
		return
	}

	logger.Debug("approval form opened", zap.Int("candidates", len(candidates)))
}
