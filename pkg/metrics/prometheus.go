// Package metrics provides Prometheus metrics for the squadup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core pipeline
	aggregationRuns     *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	profilesTotal       prometheus.Gauge
	teamGenerations     *prometheus.CounterVec
	teamCost            prometheus.Histogram
	partitionsEvaluated prometheus.Counter
	awardTabulations    *prometheus.CounterVec
	awardResults        prometheus.Counter
	modifierRowsDecayed prometheus.Counter
	modifierDeltas      prometheus.Counter
	submissions         *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueCoalesced     prometheus.Counter

	// Worker
	workerCount             prometheus.Gauge
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level recorders

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "squadup",
		subsystem:        "core",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	hist := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets}
	}

	m.aggregationRuns = auto.NewCounterVec(prometheus.CounterOpts(opts("aggregation_runs_total", "Skill profile aggregation runs by outcome")), []string{"outcome"})
	m.aggregationDuration = auto.NewHistogram(hist("aggregation_duration_milliseconds", "Aggregation run duration in milliseconds", m.histogramBuckets))
	m.profilesTotal = auto.NewGauge(prometheus.GaugeOpts(opts("skill_profiles", "Number of materialized skill profiles")))

	m.teamGenerations = auto.NewCounterVec(prometheus.CounterOpts(opts("team_generations_total", "Team generation attempts by outcome")), []string{"outcome"})
	m.teamCost = auto.NewHistogram(hist("team_cost", "Imbalance cost of generated team splits", []float64{0, 0.5, 1, 2, 3, 5, 8, 13, 21}))
	m.partitionsEvaluated = auto.NewCounter(prometheus.CounterOpts(opts("partitions_evaluated_total", "Candidate team splits scored by the optimizer")))

	m.awardTabulations = auto.NewCounterVec(prometheus.CounterOpts(opts("award_tabulations_total", "Award tabulation runs by outcome")), []string{"outcome"})
	m.awardResults = auto.NewCounter(prometheus.CounterOpts(opts("award_results_total", "Award result rows produced")))
	m.modifierRowsDecayed = auto.NewCounter(prometheus.CounterOpts(opts("modifier_rows_decayed_total", "Performance modifier rows decayed")))
	m.modifierDeltas = auto.NewCounter(prometheus.CounterOpts(opts("modifier_deltas_applied_total", "Award deltas applied to performance modifiers")))

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts(opts("submissions_total", "Accepted player submissions by kind")), []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts(opts("http_requests_total", "Total number of HTTP requests")), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(hist("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.httpRateLimited = auto.NewCounter(prometheus.CounterOpts(opts("http_rate_limited_total", "Requests rejected by the rate limiter")))

	m.storeLatency = auto.NewHistogramVec(hist("store_operation_latency_milliseconds", "Record store operation latency in milliseconds", m.histogramBuckets), []string{"operation"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts(opts("queue_size", "Current number of jobs in the queue")))
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts(opts("queue_capacity", "Queue capacity")))
	m.queueEnqueue = auto.NewCounter(prometheus.CounterOpts(opts("queue_enqueue_total", "Jobs enqueued")))
	m.queueDequeue = auto.NewCounter(prometheus.CounterOpts(opts("queue_dequeue_total", "Jobs dequeued")))
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts(opts("queue_enqueue_errors_total", "Failed enqueue attempts")))
	m.queueCoalesced = auto.NewCounter(prometheus.CounterOpts(opts("queue_coalesced_total", "Jobs skipped because an equal job was already pending")))

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts(opts("worker_count", "Configured worker goroutines")))
	m.workerActive = auto.NewGauge(prometheus.GaugeOpts(opts("worker_active", "Workers currently running a job")))
	m.workerProcessingLatency = auto.NewHistogram(hist("worker_processing_latency_milliseconds", "Job processing latency in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts(opts("worker_errors_total", "Jobs that finished with an error")))

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts(opts("errors_by_component_total", "Errors by component and type")), []string{"component", "error_type"})
}

// RecordAggregation records one aggregation run.
func RecordAggregation(outcome string, durationMs float64, profiles int) {
	globalManager.aggregationRuns.WithLabelValues(outcome).Inc()
	globalManager.aggregationDuration.Observe(durationMs)
	if outcome == OutcomeOK {
		globalManager.profilesTotal.Set(float64(profiles))
	}
}

// RecordTeamGeneration records one team generation attempt.
func RecordTeamGeneration(outcome string, cost float64, evaluated int) {
	globalManager.teamGenerations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		globalManager.teamCost.Observe(cost)
		globalManager.partitionsEvaluated.Add(float64(evaluated))
	}
}

// RecordAwardTabulation records one award tabulation run and its ledger effect.
func RecordAwardTabulation(outcome string, results, decayed, applied int) {
	globalManager.awardTabulations.WithLabelValues(outcome).Inc()
	globalManager.awardResults.Add(float64(results))
	globalManager.modifierRowsDecayed.Add(float64(decayed))
	globalManager.modifierDeltas.Add(float64(applied))
}

// RecordModifierDelta counts a manually applied award delta.
func RecordModifierDelta() {
	globalManager.modifierDeltas.Inc()
}

// RecordSubmission counts an accepted submission such as "rating" or "award_vote".
func RecordSubmission(kind string) {
	globalManager.submissions.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPRateLimited counts a request rejected by the rate limiter.
func RecordHTTPRateLimited() {
	globalManager.httpRateLimited.Inc()
}

// RecordStoreLatency records the latency of a store operation.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueCoalesced counts a job dropped because one was already pending.
func RecordQueueCoalesced() {
	globalManager.queueCoalesced.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerProcessingLatency records job processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom registry used for all metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
