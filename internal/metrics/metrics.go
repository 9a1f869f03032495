// Package metrics определяет метрики Prometheus сервиса анализа изображений.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик, инкрементируемых сервисом анализа.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	ProviderDuration prometheus.Histogram
}

// New регистрирует метрики в переданном реестре.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vision_analyses_total",
			Help: "Количество запросов анализа по уровню подписки и результату.",
		}, []string{"tier", "status"}),
		ProviderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vision_provider_duration_seconds",
			Help:    "Длительность обращений к модели анализа изображений.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
