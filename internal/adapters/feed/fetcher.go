// Package feed fetches campus events from the remote events endpoint and
// keeps the last successful result in memory.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

const (
	// DefaultURL is the campus events endpoint.
	DefaultURL     = "http://129.21.63.14:3000/api/events"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	flightKey      = "events"
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithURL sets the endpoint.
func WithURL(url string) Option {
	return func(f *Fetcher) {
		if url != "" {
			f.url = url
		}
	}
}

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// Fetcher holds the events from the last successful fetch.
type Fetcher struct {
	url     string
	timeout time.Duration
	client  *http.Client
	log     logger.Logger
	group   singleflight.Group

	mu     sync.RWMutex
	events []model.CampusEvent
	last   time.Time
}

// New creates a Fetcher with no events.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		url:     DefaultURL,
		timeout: defaultTimeout,
		client:  http.DefaultClient,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the configured endpoint.
func (f *Fetcher) URL() string { return f.url }

// Events returns a copy of the current events.
func (f *Fetcher) Events() []model.CampusEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.CampusEvent, len(f.events))
	copy(out, f.events)
	return out
}

// LastFetched returns when the list was last replaced. Zero if never.
func (f *Fetcher) LastFetched() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last
}

// FetchEvents issues one GET and replaces the events on success.
// A single JSON object becomes a one-element list; a JSON array replaces
// the list with all its elements. Concurrent calls share one request.
// On failure the current list is left as is.
func (f *Fetcher) FetchEvents(ctx context.Context) ([]model.CampusEvent, error) {
	ch := f.group.DoChan(flightKey, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// the callers sharing this flight.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()
		return f.fetch(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch events: %w: %w", ErrTransport, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		events, _ := res.Val.([]model.CampusEvent)
		out := make([]model.CampusEvent, len(events))
		copy(out, events)
		return out, nil
	}
}

func (f *Fetcher) fetch(ctx context.Context) ([]model.CampusEvent, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFeedFetchLatency(float64(time.Since(start).Milliseconds()))
	}()

	events, result, err := f.get(ctx)
	metrics.RecordFeedFetch(result)
	if err != nil {
		f.log.Error(ctx, "failed to fetch events",
			logger.String("url", f.url),
			logger.String("result", result),
			logger.Error(err),
		)
		return nil, err
	}

	f.mu.Lock()
	f.events = events
	f.last = time.Now()
	f.mu.Unlock()
	metrics.UpdateFeedEvents(len(events))

	f.log.Info(ctx, "fetched events",
		logger.String("url", f.url),
		logger.Int("count", len(events)),
		logger.Duration("took", time.Since(start)),
	)
	return events, nil
}

func (f *Fetcher) get(ctx context.Context) ([]model.CampusEvent, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, "transport", fmt.Errorf("build request: %w: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "transport", fmt.Errorf("get %s: %w: %w", f.url, ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "status", fmt.Errorf("get %s: %w: %d", f.url, ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "transport", fmt.Errorf("read body: %w: %w", ErrTransport, err)
	}

	events, err := decode(body)
	if err != nil {
		return nil, "decode", err
	}
	return events, "ok", nil
}

// wireEvent mirrors the endpoint's event object. Every field is required;
// a missing or null field fails the whole body.
type wireEvent struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Link        *string `json:"link"`
	Description *string `json:"description"`
}

func (w wireEvent) event() (model.CampusEvent, error) {
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"title", w.Title},
		{"date", w.Date},
		{"link", w.Link},
		{"description", w.Description},
	} {
		if f.v == nil {
			return model.CampusEvent{}, fmt.Errorf("%w: missing %s", ErrDecode, f.name)
		}
	}
	return model.CampusEvent{
		ID:          uuid.NewString(),
		Title:       *w.Title,
		Date:        *w.Date,
		Link:        *w.Link,
		Description: *w.Description,
	}, nil
}

// decode accepts either a single event object or an array of events.
func decode(body []byte) ([]model.CampusEvent, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDecode)
	}

	var wire []wireEvent
	switch body[0] {
	case '{':
		var e wireEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		wire = []wireEvent{e}
	case '[':
		if err := json.Unmarshal(body, &wire); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	default:
		return nil, fmt.Errorf("%w: body is neither an object nor an array", ErrDecode)
	}

	events := make([]model.CampusEvent, 0, len(wire))
	for i, w := range wire {
		e, err := w.event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}
