package platform

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: длительность вызовов API платформы
	CallDuration *prometheus.HistogramVec

	// Saturation: состояние Circuit Breaker (0 - closed, 1 - half-open, 2 - open)
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		CallDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_platform_call_duration_seconds",
			Help:    "Histogram of chat platform API call latencies.",
			Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "status"}),

		CircuitBreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "relay_platform_circuit_breaker_state",
			Help: "Current state of the platform circuit breaker (0=closed, 1=half-open, 2=open).",
		}),
	}
}
