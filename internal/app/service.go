// Package service wires the campnav components together and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/okian/campnav/internal/adapters/device"
	"github.com/okian/campnav/internal/adapters/feed"
	"github.com/okian/campnav/internal/adapters/mq/kafka"
	"github.com/okian/campnav/internal/adapters/mq/queue"
	"github.com/okian/campnav/internal/adapters/mq/worker"
	"github.com/okian/campnav/internal/adapters/storage/floorplan"
	"github.com/okian/campnav/internal/domain/directory"
	"github.com/okian/campnav/internal/domain/emergency"
	"github.com/okian/campnav/internal/domain/location"
	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/internal/domain/settings"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

// Lifecycle errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrStopped    = errors.New("service stopped; create a new one")
)

// Service owns every piece of campnav state.
type Service struct {
	mu sync.RWMutex

	// Configuration
	queueSize     int
	commandBuffer int
	eventsURL     string
	fetchTimeout  time.Duration
	fetchOnStart  bool
	httpClient    *http.Client
	floorStore    floorplan.Store
	kafkaReader   kafka.Reader

	// Components
	queue       *queue.InMemoryQueue
	bridge      *device.Bridge
	coordinator *location.Coordinator
	dispatcher  *worker.Dispatcher
	fetcher     *feed.Fetcher
	directory   *directory.Directory
	settings    *settings.Store
	floorplans  *floorplan.Service
	source      *kafka.Source

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	bg        sync.WaitGroup
	sourceWG  sync.WaitGroup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the device update queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCommandBuffer bounds the commands kept for the device shell.
func WithCommandBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.commandBuffer = n
		}
	}
}

// WithEventsURL sets the remote events endpoint.
func WithEventsURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.eventsURL = url
		}
	}
}

// WithFetchTimeout bounds one events fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithFetchOnStart fetches events once when the service starts.
func WithFetchOnStart(on bool) Option {
	return func(s *Service) {
		s.fetchOnStart = on
	}
}

// WithHTTPClient sets the client used for the events fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithFloorPlanStore sets where floor plan documents are read from.
func WithFloorPlanStore(store floorplan.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.floorStore = store
		}
	}
}

// WithKafkaReader enables the Kafka device source.
func WithKafkaReader(r kafka.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.kafkaReader = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Components exist right away; Start launches
// the background loops.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:     1024,
		commandBuffer: 256,
		eventsURL:     feed.DefaultURL,
		fetchTimeout:  10 * time.Second,
		httpClient:    http.DefaultClient,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.bridge = device.NewBridge(s.queue,
		device.WithMaxPending(s.commandBuffer),
		device.WithLogger(s.logger.Named("device")),
	)
	s.coordinator = location.New(s.bridge, location.WithLogger(s.logger.Named("location")))
	s.dispatcher = worker.NewDispatcher(s.queue, s.coordinator, worker.WithLogger(s.logger.Named("dispatcher")))
	s.fetcher = feed.New(
		feed.WithURL(s.eventsURL),
		feed.WithTimeout(s.fetchTimeout),
		feed.WithHTTPClient(s.httpClient),
		feed.WithLogger(s.logger.Named("feed")),
	)
	s.directory = directory.New(s.logger.Named("directory"))
	s.settings = settings.NewStore(s.logger.Named("settings"))
	if s.floorStore == nil {
		s.floorStore = floorplan.NewFSStore(emptyFS{})
	}
	s.floorplans = floorplan.NewService(s.floorStore, s.logger.Named("floorplan"))
	if s.kafkaReader != nil {
		s.source = kafka.NewSource(s.kafkaReader, s.queue, kafka.WithLogger(s.logger.Named("kafka")))
	}
	return s
}

// Start launches the dispatcher, the optional Kafka source and the
// initial events fetch.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.cancel != nil {
		return ErrStopped
	}
	s.logger.Info(ctx, "starting campnav service...")

	// Background loops outlive the caller's context; Stop ends them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	go s.dispatcher.Run(runCtx)

	if s.source != nil {
		s.sourceWG.Add(1)
		go func() {
			defer s.sourceWG.Done()
			if err := s.source.Run(runCtx); err != nil {
				s.logger.Error(runCtx, "kafka source failed", logger.Error(err))
			}
		}()
	}

	if s.fetchOnStart {
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			// Errors are logged and counted by the fetcher.
			_, _ = s.fetcher.FetchEvents(runCtx)
		}()
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "campnav service started",
		logger.Int("queueSize", s.queueSize),
		logger.String("eventsURL", s.eventsURL),
		logger.Bool("kafka", s.source != nil),
		logger.Bool("fetchOnStart", s.fetchOnStart),
	)
	return nil
}

// Stop drains pending device updates and releases the platform.
// Order: Kafka source, queue, dispatcher, coordinator.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	s.logger.Info(ctx, "stopping campnav service...")

	var errs []error
	if s.source != nil {
		// Closing the reader unblocks a pending fetch.
		if err := s.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka reader: %w", err))
		}
		s.sourceWG.Wait()
	}
	if err := s.queue.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close queue: %w", err))
	}
	if err := s.dispatcher.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.coordinator.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close coordinator: %w", err))
	}
	s.cancel()
	s.bg.Wait()

	s.started = false
	s.logger.Info(ctx, "campnav service stopped")
	return errors.Join(errs...)
}

// Location

func (s *Service) LocationSnapshot() location.Snapshot {
	return s.coordinator.Snapshot()
}

func (s *Service) RequestPermission(ctx context.Context) error {
	return s.coordinator.RequestPermission(ctx)
}

func (s *Service) LocateTap(ctx context.Context) (location.Outcome, error) {
	return s.coordinator.HandleLocateTap(ctx)
}

func (s *Service) DismissAlert() {
	s.coordinator.DismissAlert()
}

func (s *Service) OpenSettings(ctx context.Context) (bool, error) {
	return s.coordinator.OpenSettings(ctx)
}

// Device

func (s *Service) ReportAuthorization(ctx context.Context, status model.AuthorizationStatus) error {
	return s.bridge.ReportAuthorization(ctx, status)
}

func (s *Service) ReportLocations(ctx context.Context, locs []model.Coordinate) error {
	return s.bridge.ReportLocations(ctx, locs)
}

func (s *Service) DrainCommands() []device.Command {
	return s.bridge.Drain()
}

// Feed

func (s *Service) CampusEvents() []model.CampusEvent {
	return s.fetcher.Events()
}

func (s *Service) RefreshEvents(ctx context.Context) ([]model.CampusEvent, error) {
	return s.fetcher.FetchEvents(ctx)
}

// Directory

func (s *Service) Events(category string) []model.Event {
	return s.directory.Events(category)
}

func (s *Service) Clubs(category, search string) []model.Club {
	return s.directory.Clubs(category, search)
}

func (s *Service) CreateClub(ctx context.Context, draft model.ClubDraft) (model.Club, error) {
	return s.directory.CreateClub(ctx, draft)
}

func (s *Service) ToggleJoin(ctx context.Context, id string) (model.Club, error) {
	return s.directory.ToggleJoin(ctx, id)
}

func (s *Service) ToggleReminder(ctx context.Context, id string) (directory.Reminder, error) {
	return s.directory.ToggleReminder(ctx, id)
}

// Floor plans

func (s *Service) Buildings() []model.Building {
	return s.floorplans.Buildings()
}

func (s *Service) FloorPlan(ctx context.Context, building string) (model.Building, []byte, error) {
	return s.floorplans.FloorPlan(ctx, building)
}

// Settings and emergency

func (s *Service) Settings() model.Settings {
	return s.settings.Get()
}

func (s *Service) SaveSettings(ctx context.Context, next model.Settings) (model.Settings, error) {
	return s.settings.Save(ctx, next)
}

// UpdateSettings changes the settings atomically; see settings.Store.Update.
func (s *Service) UpdateSettings(ctx context.Context, change func(*model.Settings) error) (model.Settings, error) {
	return s.settings.Update(ctx, change)
}

func (s *Service) EmergencyInfo() emergency.Info {
	return emergency.GetInfo()
}

func (s *Service) RaiseEmergency(ctx context.Context, kind string) (emergency.Ack, error) {
	return emergency.RaiseAlert(ctx, s.logger.Named("emergency"), kind)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.coordinator.Snapshot()
	queueLen := s.queue.Len()
	metrics.UpdateQueueSize(queueLen)

	stats := map[string]any{
		"started":         s.started,
		"queueCapacity":   s.queue.Capacity(),
		"queueLength":     queueLen,
		"permission":      snap.Permission,
		"updating":        snap.Updating,
		"locationUpdates": snap.LocationUpdates,
		"cameraMoves":     snap.CameraMoves,
		"dispatched":      s.dispatcher.Processed(),
		"dispatchFailed":  s.dispatcher.Failed(),
		"feedEvents":      len(s.fetcher.Events()),
		"eventsURL":       s.fetcher.URL(),
		"kafka":           s.source != nil,
	}
	if last := s.fetcher.LastFetched(); !last.IsZero() {
		stats["lastFetched"] = last.UTC().Format(time.RFC3339)
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}

// emptyFS backs the floor plan store when none is configured; every
// document is missing.
type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
