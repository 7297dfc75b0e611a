// Package kafka consumes device location callbacks from a Kafka topic and
// feeds them into the device update queue.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/okian/campnav/internal/adapters/mq/queue"
	"github.com/okian/campnav/internal/domain/dedupe"
	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

const defaultBackoff = time.Second

// Reader is the subset of *kafka.Reader the source needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Enqueuer accepts device updates.
type Enqueuer interface {
	Enqueue(ctx context.Context, u model.Update) error
}

// Config selects the topic to consume.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewReader builds a consumer-group reader with manual commits.
func NewReader(cfg Config) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
}

// Message is the JSON body of a device message. ID makes redeliveries
// detectable; without it the partition and offset are used.
type Message struct {
	ID        string                    `json:"id,omitempty"`
	DeviceID  string                    `json:"deviceId,omitempty"`
	Kind      model.UpdateKind          `json:"kind"`
	Status    model.AuthorizationStatus `json:"status,omitempty"`
	Locations []model.Coordinate        `json:"locations,omitempty"`
}

// Option configures a Source.
type Option func(*Source)

// WithBackoff sets the wait after a read error or a full queue.
func WithBackoff(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.backoff = d
		}
	}
}

// WithDeduper sets where seen message IDs are remembered.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Source) {
		if d != nil {
			s.seen = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// Source moves messages from a Reader to an Enqueuer. A message is
// committed only after its update was accepted or it was found invalid.
type Source struct {
	reader  Reader
	queue   Enqueuer
	seen    dedupe.Deduper
	backoff time.Duration
	log     logger.Logger
}

// NewSource creates a Source.
func NewSource(r Reader, q Enqueuer, opts ...Option) *Source {
	s := &Source{
		reader:  r,
		queue:   q,
		backoff: defaultBackoff,
		log:     logger.Nop(),
	}
	s.seen = dedupe.NewInMemoryDeduper()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run consumes until ctx is done, the reader is closed or the queue is
// closed.
func (s *Source) Run(ctx context.Context) error {
	s.log.Info(ctx, "kafka source started")
	defer s.log.Info(ctx, "kafka source stopped")

	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			metrics.RecordKafkaMessage("read_error")
			s.log.Error(ctx, "error reading message", logger.Error(err))
			if !s.wait(ctx) {
				return nil
			}
			continue
		}

		if stop, err := s.handle(ctx, msg); stop {
			return err
		}

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			metrics.RecordKafkaMessage("commit_error")
			s.log.Error(ctx, "error committing offset",
				logger.Int("partition", msg.Partition),
				logger.Int64("offset", msg.Offset),
				logger.Error(err),
			)
		}
	}
}

// handle applies one message. It reports stop when the loop must end.
func (s *Source) handle(ctx context.Context, msg kafkago.Message) (bool, error) {
	m, update, err := decode(msg.Value)
	if err != nil {
		metrics.RecordKafkaMessage("invalid")
		s.log.Warn(ctx, "skipping device message",
			logger.String("topic", msg.Topic),
			logger.Int("partition", msg.Partition),
			logger.Int64("offset", msg.Offset),
			logger.Error(err),
		)
		return false, nil
	}

	id := messageID(m, msg)
	if s.seen.SeenAndRecord(ctx, id) {
		metrics.RecordKafkaMessage("duplicate")
		s.log.Debug(ctx, "skipping redelivered device message", logger.String("id", id))
		return false, nil
	}
	if err := s.enqueue(ctx, update); err != nil {
		// Not applied; a redelivery must get through.
		s.seen.Unrecord(ctx, id)
		if errors.Is(err, queue.ErrClosed) || ctx.Err() != nil {
			return true, nil
		}
		return true, err
	}
	metrics.RecordKafkaMessage("ok")
	return false, nil
}

func messageID(m Message, msg kafkago.Message) string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
}

// enqueue retries while the queue is full so the offset is not committed
// for an update that was never accepted.
func (s *Source) enqueue(ctx context.Context, u model.Update) error {
	for {
		err := s.queue.Enqueue(ctx, u)
		if !errors.Is(err, queue.ErrFull) {
			return err
		}
		metrics.RecordKafkaMessage("backpressure")
		if !s.wait(ctx) {
			return ctx.Err()
		}
	}
}

func (s *Source) wait(ctx context.Context) bool {
	t := time.NewTimer(s.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Close closes the reader.
func (s *Source) Close() error {
	return s.reader.Close()
}

// Decode turns a message body into an update.
func Decode(body []byte) (model.Update, error) {
	_, u, err := decode(body)
	return u, err
}

func decode(body []byte) (Message, model.Update, error) {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return m, model.Update{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	u, err := m.Update()
	return m, u, err
}

// Update validates m and converts it.
func (m Message) Update() (model.Update, error) {
	switch m.Kind {
	case model.UpdateAuthorization:
		if !m.Status.Valid() {
			return model.Update{}, fmt.Errorf("%w: status %q", ErrInvalidMessage, m.Status)
		}
		return model.AuthorizationUpdate(m.Status), nil
	case model.UpdateLocations:
		for _, c := range m.Locations {
			if !c.Valid() {
				return model.Update{}, fmt.Errorf("%w: coordinate out of range", ErrInvalidMessage)
			}
		}
		return model.LocationsUpdate(m.Locations), nil
	default:
		return model.Update{}, fmt.Errorf("%w: kind %q", ErrInvalidMessage, m.Kind)
	}
}
