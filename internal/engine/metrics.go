package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения label "result"
const (
	resultOK        = "ok"
	resultIgnored   = "ignored"
	resultMalformed = "malformed"
	resultFailed    = "delivery_failed"
)

// Значение label "kind" для необрабатываемых типов интеракций
const kindOther = "other"

type Metrics struct {
	// Traffic: входящие вебхуки по типу события и исходу
	WebhooksTotal *prometheus.CounterVec

	// Errors: отказы фоновой задачи показа формы (ответ на вебхук уже отдан)
	BackgroundFailures *prometheus.CounterVec

	// Доставленные решения апруверов
	DecisionsTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		WebhooksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "relay_webhooks_total",
			Help: "Total number of inbound webhook events by kind and result.",
		}, []string{"kind", "result"}),

		BackgroundFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "relay_background_failures_total",
			Help: "Failures absorbed after the command webhook was acknowledged.",
		}, []string{"stage"}), // стадии: directory, form

		DecisionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "relay_decisions_total",
			Help: "Total number of decisions delivered to requesters.",
		}, []string{"outcome"}),
	}
}
