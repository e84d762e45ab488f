package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultCompleted            = "completed"
	ResultFailed               = "failed"
	ResultRequiresReconnection = "requires_reconnection"
)

// SyncMetrics expõe os contadores dos jobs de sincronização por plataforma
type SyncMetrics struct {
	jobs          *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	ordersUpserts *prometheus.CounterVec
	droppedEvents prometheus.Counter
}

var (
	syncMetricsOnce sync.Once
	syncMetrics     *SyncMetrics
)

// Sync retorna a instância registrada no registry padrão
func Sync() *SyncMetrics {
	syncMetricsOnce.Do(func() {
		syncMetrics = NewSyncMetrics(prometheus.DefaultRegisterer)
	})
	return syncMetrics
}

func NewSyncMetrics(registerer prometheus.Registerer) *SyncMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &SyncMetrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_jobs_total",
			Help: "Jobs de sincronização finalizados por plataforma e resultado.",
		}, []string{"platform", "result"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sync_job_duration_seconds",
			Help:    "Duração dos jobs de sincronização por plataforma.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"platform"}),
		ordersUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_orders_upserted_total",
			Help: "Pedidos gravados pela sincronização por plataforma.",
		}, []string{"platform"}),
		droppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_progress_events_dropped_total",
			Help: "Eventos de progresso descartados por assinantes lentos.",
		}),
	}

	registerer.MustRegister(m.jobs, m.jobDuration, m.ordersUpserts, m.droppedEvents)

	return m
}

// ObserveJob registra o fim de um job
func (m *SyncMetrics) ObserveJob(platform, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(platform, result).Inc()
	m.jobDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

func (m *SyncMetrics) AddOrdersUpserted(platform string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ordersUpserts.WithLabelValues(platform).Add(float64(n))
}

func (m *SyncMetrics) IncDroppedEvents() {
	if m == nil {
		return
	}
	m.droppedEvents.Inc()
}
