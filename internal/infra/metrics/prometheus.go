package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics gerencia métricas do serviço de detecção de fraude
type PipelineMetrics struct {
	requestCounter     *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	activeRequests     *prometheus.GaugeVec
	errorsTotal        *prometheus.CounterVec
	transactionsTotal  *prometheus.CounterVec
	scoringDuration    *prometheus.HistogramVec
	kafkaMessages      *prometheus.CounterVec
	kafkaErrors        *prometheus.CounterVec
	circuitBreakerOpen *prometheus.GaugeVec
	cacheHitRatio      *prometheus.GaugeVec
	consumerRunning    prometheus.Gauge
}

// NewPipelineMetrics cria e registra métricas do prometheus
func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		requestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraud_api_requests_total",
				Help: "Total number of HTTP requests by path, method, and status code",
			},
			[]string{"path", "method", "status"},
		),

		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fraud_api_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		activeRequests: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fraud_api_active_requests",
				Help: "Number of in-flight requests being processed",
			},
			[]string{"path", "method"},
		),

		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraud_api_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"path", "method", "error_type"},
		),

		transactionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraud_api_transactions_total",
				Help: "Total number of transactions by pipeline stage and outcome",
			},
			[]string{"stage", "outcome"},
		),

		scoringDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fraud_api_scoring_duration_seconds",
				Help:    "Model scoring duration in seconds per model",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"model"},
		),

		kafkaMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraud_api_kafka_messages_total",
				Help: "Total number of Kafka messages by topic and direction",
			},
			[]string{"topic", "direction"},
		),

		kafkaErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraud_api_kafka_errors_total",
				Help: "Total number of Kafka errors by topic and kind",
			},
			[]string{"topic", "kind"},
		),

		circuitBreakerOpen: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fraud_api_circuit_breaker_open",
				Help: "Indicates if a circuit breaker is open (1) or closed (0)",
			},
			[]string{"service"},
		),

		cacheHitRatio: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fraud_api_cache_hit_ratio",
				Help: "Cache hit ratio (0.0 to 1.0)",
			},
			[]string{"cache_type"},
		),

		consumerRunning: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fraud_api_consumer_running",
				Help: "Indicates if the background transaction consumer is running (1) or stopped (0)",
			},
		),
	}
}

// RequestStarted registra o início de uma requisição
func (m *PipelineMetrics) RequestStarted(path, method string) {
	m.activeRequests.WithLabelValues(path, method).Inc()
}

// RequestCompleted registra a conclusão de uma requisição
func (m *PipelineMetrics) RequestCompleted(path, method, status string, duration time.Duration) {
	m.requestCounter.WithLabelValues(path, method, status).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
	m.activeRequests.WithLabelValues(path, method).Dec()
}

// RequestError registra um erro de requisição
func (m *PipelineMetrics) RequestError(path, method, errorType string) {
	m.errorsTotal.WithLabelValues(path, method, errorType).Inc()
}

// TransactionProcessed registra uma transação que passou por uma etapa do pipeline
func (m *PipelineMetrics) TransactionProcessed(stage, outcome string) {
	m.transactionsTotal.WithLabelValues(stage, outcome).Inc()
}

// ScoringObserved registra a duração da pontuação de um modelo
func (m *PipelineMetrics) ScoringObserved(model string, duration time.Duration) {
	m.scoringDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// KafkaMessage registra uma mensagem Kafka consumida ou produzida
func (m *PipelineMetrics) KafkaMessage(topic, direction string) {
	m.kafkaMessages.WithLabelValues(topic, direction).Inc()
}

// KafkaError registra um erro de Kafka
func (m *PipelineMetrics) KafkaError(topic, kind string) {
	m.kafkaErrors.WithLabelValues(topic, kind).Inc()
}

// SetCircuitBreakerState registra o estado de um circuit breaker
func (m *PipelineMetrics) SetCircuitBreakerState(service string, open bool) {
	value := 0.0
	if open {
		value = 1.0
	}
	m.circuitBreakerOpen.WithLabelValues(service).Set(value)
}

// SetCacheHitRatio registra a taxa de acerto do cache
func (m *PipelineMetrics) SetCacheHitRatio(cacheType string, ratio float64) {
	m.cacheHitRatio.WithLabelValues(cacheType).Set(ratio)
}

// SetConsumerRunning registra se o consumidor em segundo plano está ativo
func (m *PipelineMetrics) SetConsumerRunning(running bool) {
	if running {
		m.consumerRunning.Set(1)
	} else {
		m.consumerRunning.Set(0)
	}
}
