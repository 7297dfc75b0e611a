// Package metrics provides Prometheus metrics for the campnav service.
package metrics

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Location coordinator
	permissionTransitions *prometheus.CounterVec
	permissionAlerts      prometheus.Counter
	locationUpdates       prometheus.Counter
	locateTaps            *prometheus.CounterVec
	cameraMoves           prometheus.Counter
	platformCommands      *prometheus.CounterVec

	// Event feed
	feedFetches      *prometheus.CounterVec
	feedFetchLatency prometheus.Histogram
	feedEvents       prometheus.Gauge

	// Device update queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Dispatcher
	dispatchLatency prometheus.Histogram
	dispatchErrors  prometheus.Counter

	// Kafka source
	kafkaMessages *prometheus.CounterVec

	// Directory and assets
	clubsCreated      prometheus.Counter
	clubJoins         *prometheus.CounterVec
	eventReminders    *prometheus.CounterVec
	floorPlanLookups  *prometheus.CounterVec
	settingsSaves     prometheus.Counter
	emergencyRequests *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// global pairs the package-level manager with the registry it registers
// on, so /healthz always serves the collectors being recorded.
type global struct {
	manager  *Manager
	registry *prometheus.Registry
}

var current atomic.Pointer[global] //nolint:gochecknoglobals // package-level metrics

func init() { //nolint:gochecknoinits // global metrics setup
	Configure()
}

// Configure replaces the package-level collectors with ones built from
// opts on a fresh registry and returns that registry. Call it at startup,
// before the metrics handler is built; series recorded earlier are lost.
func Configure(opts ...Option) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	m := NewManager(append(append([]Option(nil), opts...), WithRegistry(reg))...)
	current.Store(&global{manager: m, registry: reg})
	return reg
}

func active() *Manager {
	return current.Load().manager
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "campnav",
		subsystem:      "core",
		latencyBuckets: prometheus.DefBuckets,
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.permissionTransitions = auto.NewCounterVec(
		m.counterOpts("permission_transitions_total", "Location permission transitions by target state"),
		[]string{"state"},
	)
	m.permissionAlerts = auto.NewCounter(m.counterOpts("permission_alerts_total", "Times the location access alert was raised"))
	m.locationUpdates = auto.NewCounter(m.counterOpts("location_updates_total", "Location batches applied to the last known position"))
	m.locateTaps = auto.NewCounterVec(
		m.counterOpts("locate_taps_total", "Locate button taps by outcome"),
		[]string{"outcome"},
	)
	m.cameraMoves = auto.NewCounter(m.counterOpts("camera_moves_total", "Camera moves to the user position"))
	m.platformCommands = auto.NewCounterVec(
		m.counterOpts("platform_commands_total", "Commands issued to the device location platform"),
		[]string{"command"},
	)

	m.feedFetches = auto.NewCounterVec(
		m.counterOpts("feed_fetches_total", "Remote event fetches by result"),
		[]string{"result"},
	)
	m.feedFetchLatency = auto.NewHistogram(m.histogramOpts("feed_fetch_latency_milliseconds", "Remote event fetch latency in milliseconds", m.latencyBuckets))
	m.feedEvents = auto.NewGauge(m.gaugeOpts("feed_events", "Events currently held from the remote feed"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Device updates waiting to be applied"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Device update queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Device updates enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Device updates dequeued"))
	m.queueEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("queue_enqueue_errors_total", "Rejected device updates by reason"),
		[]string{"reason"},
	)

	m.dispatchLatency = auto.NewHistogram(m.histogramOpts("dispatch_latency_milliseconds", "Time to apply one device update in milliseconds", m.latencyBuckets))
	m.dispatchErrors = auto.NewCounter(m.counterOpts("dispatch_errors_total", "Device updates that failed to apply"))

	m.kafkaMessages = auto.NewCounterVec(
		m.counterOpts("kafka_messages_total", "Kafka device messages by result"),
		[]string{"result"},
	)

	m.clubsCreated = auto.NewCounter(m.counterOpts("clubs_created_total", "Clubs submitted for approval"))
	m.clubJoins = auto.NewCounterVec(
		m.counterOpts("club_join_toggles_total", "Club join toggles by resulting state"),
		[]string{"joined"},
	)
	m.eventReminders = auto.NewCounterVec(
		m.counterOpts("event_reminder_toggles_total", "Event reminder toggles by resulting state"),
		[]string{"reminded"},
	)
	m.floorPlanLookups = auto.NewCounterVec(
		m.counterOpts("floorplan_lookups_total", "Floor plan lookups by result"),
		[]string{"result"},
	)
	m.settingsSaves = auto.NewCounter(m.counterOpts("settings_saves_total", "Settings saves"))
	m.emergencyRequests = auto.NewCounterVec(
		m.counterOpts("emergency_requests_total", "Emergency alert requests by kind"),
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Location coordinator.

// RecordPermissionTransition counts a permission transition into state.
func RecordPermissionTransition(state string) {
	active().permissionTransitions.WithLabelValues(state).Inc()
}

// RecordPermissionAlert counts a raised location access alert.
func RecordPermissionAlert() {
	active().permissionAlerts.Inc()
}

// RecordLocationUpdate counts an applied location batch.
func RecordLocationUpdate() {
	active().locationUpdates.Inc()
}

// RecordLocateTap counts a locate tap by outcome.
func RecordLocateTap(outcome string) {
	active().locateTaps.WithLabelValues(outcome).Inc()
}

// RecordCameraMove counts a camera move.
func RecordCameraMove() {
	active().cameraMoves.Inc()
}

// RecordPlatformCommand counts a command sent to the location platform.
func RecordPlatformCommand(command string) {
	active().platformCommands.WithLabelValues(command).Inc()
}

// Event feed.

// RecordFeedFetch counts a fetch by result ("ok", "transport", "status", "decode").
func RecordFeedFetch(result string) {
	active().feedFetches.WithLabelValues(result).Inc()
}

// RecordFeedFetchLatency records fetch latency in milliseconds.
func RecordFeedFetchLatency(latencyMs float64) {
	active().feedFetchLatency.Observe(latencyMs)
}

// UpdateFeedEvents sets the number of events held from the feed.
func UpdateFeedEvents(count int) {
	active().feedEvents.Set(float64(count))
}

// Device update queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	active().queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	active().queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an enqueued update.
func RecordQueueEnqueue() {
	active().queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeued update.
func RecordQueueDequeue() {
	active().queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected update.
func RecordQueueEnqueueError(reason string) {
	active().queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// Dispatcher.

// RecordDispatchLatency records the time spent applying one update.
func RecordDispatchLatency(latencyMs float64) {
	active().dispatchLatency.Observe(latencyMs)
}

// RecordDispatchError counts an update that failed to apply.
func RecordDispatchError() {
	active().dispatchErrors.Inc()
}

// Kafka.

// RecordKafkaMessage counts a consumed Kafka message by result.
func RecordKafkaMessage(result string) {
	active().kafkaMessages.WithLabelValues(result).Inc()
}

// Directory and assets.

// RecordClubCreated counts a submitted club.
func RecordClubCreated() {
	active().clubsCreated.Inc()
}

// RecordClubJoin counts a join toggle.
func RecordClubJoin(joined bool) {
	label := "false"
	if joined {
		label = "true"
	}
	active().clubJoins.WithLabelValues(label).Inc()
}

// RecordEventReminder counts a reminder toggle.
func RecordEventReminder(reminded bool) {
	active().eventReminders.WithLabelValues(strconv.FormatBool(reminded)).Inc()
}

// RecordFloorPlanLookup counts a floor plan lookup by result.
func RecordFloorPlanLookup(result string) {
	active().floorPlanLookups.WithLabelValues(result).Inc()
}

// RecordSettingsSave counts a settings save.
func RecordSettingsSave() {
	active().settingsSaves.Inc()
}

// RecordEmergencyRequest counts an emergency alert request.
func RecordEmergencyRequest(kind string) {
	active().emergencyRequests.WithLabelValues(kind).Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	active().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	active().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	active().httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	active().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	active().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	active().systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry of the package-level collectors.
func GetRegistry() *prometheus.Registry {
	return current.Load().registry
}
