package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cart"

// Prometheus implements Metrics on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	jobs         *prometheus.CounterVec
	jobDuration  *prometheus.HistogramVec
	jobAttempts  *prometheus.HistogramVec
	receipts     *prometheus.CounterVec
	receiptDur   prometheus.Histogram
	kafka        *prometheus.CounterVec
	kafkaDur     prometheus.Histogram
	rateCache    *prometheus.CounterVec
}

func NewPrometheus() *Prometheus {
	ms := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request duration in milliseconds.",
			Buckets:   ms,
		}, []string{"method", "route"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Cart mutation jobs by kind and terminal state.",
		}, []string{"kind", "state"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_ms",
			Help:      "Time from first attempt to terminal state.",
			Buckets:   ms,
		}, []string{"kind"}),
		jobAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_attempts",
			Help:      "Attempts spent per job.",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		}, []string{"kind"}),
		receipts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_total",
			Help:      "Receipts computed by currency.",
		}, []string{"currency"}),
		receiptDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_duration_ms",
			Help:      "Receipt computation time in milliseconds.",
			Buckets:   ms,
		}),
		kafka: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka job messages handled.",
		}, []string{"ok"}),
		kafkaDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_process_ms",
			Help:      "Kafka message processing time in milliseconds.",
			Buckets:   ms,
		}),
		rateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_cache_lookups_total",
			Help:      "Exchange-rate cache lookups by result.",
		}, []string{"result"}),
	}
	p.registry.MustRegister(
		p.httpRequests, p.httpDuration,
		p.jobs, p.jobDuration, p.jobAttempts,
		p.receipts, p.receiptDur,
		p.kafka, p.kafkaDur,
		p.rateCache,
	)
	return p
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) ObserveHTTP(method, route string, status int, durMs float64) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(durMs)
}

func (p *Prometheus) ObserveJob(kind, state string, attempts int, durMs float64) {
	p.jobs.WithLabelValues(kind, state).Inc()
	p.jobDuration.WithLabelValues(kind).Observe(durMs)
	p.jobAttempts.WithLabelValues(kind).Observe(float64(attempts))
}

func (p *Prometheus) ObserveReceipt(currency string, _ int, durMs float64) {
	p.receipts.WithLabelValues(currency).Inc()
	p.receiptDur.Observe(durMs)
}

func (p *Prometheus) ObserveKafka(processMs float64, ok bool) {
	p.kafka.WithLabelValues(strconv.FormatBool(ok)).Inc()
	p.kafkaDur.Observe(processMs)
}

func (p *Prometheus) IncRateCacheHit()  { p.rateCache.WithLabelValues("hit").Inc() }
func (p *Prometheus) IncRateCacheMiss() { p.rateCache.WithLabelValues("miss").Inc() }
