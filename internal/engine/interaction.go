package engine

import (
	"net/http"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// HandleInteraction — общий endpoint для отправки формы и кликов по кнопкам.
// На каждое событие ровно один ответ, на всех путях.
func (r *Relay) HandleInteraction(w http.ResponseWriter, req *http.Request) {
	logger := r.log(req.Context())

	cb, err := ParseInteraction(req.PostFormValue("payload"))
	if err != nil {
		r.rejectMalformed(w, logger, "unknown", err)
		return
	}

	kind := interactionKind(cb.Type)
	switch cb.Type {
	case slack.InteractionTypeViewSubmission:
		ar, err := SubmissionFromCallback(cb)
		if err != nil {
			r.rejectMalformed(w, logger, kind, err)
			return
		}
		r.respond(w, logger, kind, r.Submit(req.Context(), ar), "Failed to send message")

	case slack.InteractionTypeBlockActions:
		d, err := DecisionFromCallback(cb)
		if err != nil {
			r.rejectMalformed(w, logger, kind, err)
			return
		}
		r.respond(w, logger, kind, r.Decide(req.Context(), d), "Failed to send result")

	default:
		// view_closed, shortcut и т.п. — подтверждаем и ничего не делаем
		r.metrics.WebhooksTotal.WithLabelValues(kind, resultIgnored).Inc()
		logger.Debug("unhandled interaction type", zap.String("type", string(cb.Type)))
		w.WriteHeader(http.StatusOK)
	}
}

func (r *Relay) rejectMalformed(w http.ResponseWriter, logger *zap.Logger, kind string, err error) {
	r.metrics.WebhooksTotal.WithLabelValues(kind, resultMalformed).Inc()
	logger.Warn("malformed interaction payload", zap.String("type", kind), zap.Error(err))
	http.Error(w, "Malformed interaction payload", http.StatusBadRequest)
}

func (r *Relay) respond(w http.ResponseWriter, logger *zap.Logger, kind string, err error, failText string) {
	if err == nil {
		// Пустой 200 — платформа закрывает модалку без баннера ошибки
		r.metrics.WebhooksTotal.WithLabelValues(kind, resultOK).Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	r.metrics.WebhooksTotal.WithLabelValues(kind, resultFailed).Inc()
	logger.Error(failText, zap.String("type", kind), zap.Error(err))
	http.Error(w, failText, http.StatusInternalServerError)
}

// interactionKind — значение метки kind. Тип приходит от клиента,
// поэтому все, что мы не обрабатываем, сводится в одну серию.
func interactionKind(t slack.InteractionType) string {
	switch t {
	case slack.InteractionTypeViewSubmission, slack.InteractionTypeBlockActions:
		return string(t)
	default:
		return kindOther
	}
}
