package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/okian/campnav/internal/adapters/mq/queue"
	"github.com/okian/campnav/internal/domain/dedupe"
	"github.com/okian/campnav/internal/domain/model"
)

// mockReader simulates the kafka-go Reader for unit testing.
type mockReader struct {
	messages chan kafkago.Message
	readErrs chan error

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newMockReader(bodies ...string) *mockReader {
	r := &mockReader{
		messages: make(chan kafkago.Message, len(bodies)),
		readErrs: make(chan error, 1),
	}
	for i, b := range bodies {
		r.messages <- kafkago.Message{Topic: "device-updates", Offset: int64(i), Value: []byte(b)}
	}
	close(r.messages)
	return r
}

func (r *mockReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	select {
	case err := <-r.readErrs:
		return kafkago.Message{}, err
	default:
	}
	select {
	case <-ctx.Done():
		return kafkago.Message{}, ctx.Err()
	case msg, ok := <-r.messages:
		if !ok {
			return kafkago.Message{}, io.EOF
		}
		return msg, nil
	}
}

func (r *mockReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *mockReader) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// fullOnceQueue rejects the first enqueue as full.
type fullOnceQueue struct {
	mu       sync.Mutex
	rejected bool
	updates  []model.Update
}

func (q *fullOnceQueue) Enqueue(_ context.Context, u model.Update) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.rejected {
		q.rejected = true
		return queue.ErrFull
	}
	q.updates = append(q.updates, u)
	return nil
}

func TestDecode(t *testing.T) {
	Convey("Given device message bodies", t, func() {
		Convey("When decoding an authorization message", func() {
			u, err := Decode([]byte(`{"deviceId":"ph-1","kind":"authorization","status":"denied"}`))

			Convey("Then it becomes an authorization update", func() {
				So(err, ShouldBeNil)
				So(u.Kind, ShouldEqual, model.UpdateAuthorization)
				So(u.Status, ShouldEqual, model.StatusDenied)
			})
		})

		Convey("When decoding a location batch", func() {
			u, err := Decode([]byte(`{"kind":"locations","locations":[{"latitude":43.08,"longitude":-77.67},{"latitude":43.09,"longitude":-77.68}]}`))

			Convey("Then every coordinate is kept", func() {
				So(err, ShouldBeNil)
				So(u.Locations, ShouldHaveLength, 2)
			})
		})

		Convey("When decoding bad messages", func() {
			bodies := []string{
				`not json`,
				`{"kind":"authorization","status":"sometimes"}`,
				`{"kind":"locations","locations":[{"latitude":99,"longitude":0}]}`,
				`{"kind":"heading"}`,
			}
			Convey("Then each is an invalid message", func() {
				for _, b := range bodies {
					_, err := Decode([]byte(b))
					So(errors.Is(err, ErrInvalidMessage), ShouldBeTrue)
				}
			})
		})
	})
}

func TestSourceRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a reader with valid and invalid messages", t, func() {
		r := newMockReader(
			`{"kind":"authorization","status":"authorized_when_in_use"}`,
			`garbage`,
			`{"kind":"locations","locations":[{"latitude":43.0861,"longitude":-77.6705}]}`,
		)
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		s := NewSource(r, q, WithBackoff(time.Millisecond))

		Convey("When the source runs to the end of the stream", func() {
			err := s.Run(context.Background())
			So(s.Close(), ShouldBeNil)

			Convey("Then valid updates are queued and every offset committed", func() {
				So(err, ShouldBeNil)
				So(q.Len(), ShouldEqual, 2)
				So(r.committed, ShouldResemble, []int64{0, 1, 2})
				So(r.closed, ShouldBeTrue)
			})
		})
	})

	Convey("Given a queue that is full once", t, func() {
		r := newMockReader(`{"kind":"authorization","status":"denied"}`)
		q := &fullOnceQueue{}
		s := NewSource(r, q, WithBackoff(time.Millisecond))

		Convey("When the source runs", func() {
			So(s.Run(context.Background()), ShouldBeNil)

			Convey("Then the update is retried and committed once", func() {
				So(q.updates, ShouldHaveLength, 1)
				So(r.committed, ShouldResemble, []int64{0})
			})
		})
	})

	Convey("Given a reader that fails once", t, func() {
		r := newMockReader(`{"kind":"authorization","status":"denied"}`)
		r.readErrs <- errors.New("broker unavailable")
		q := queue.NewInMemoryQueue()
		s := NewSource(r, q, WithBackoff(time.Millisecond))

		Convey("Then the source backs off and keeps reading", func() {
			So(s.Run(context.Background()), ShouldBeNil)
			So(q.Len(), ShouldEqual, 1)
		})
	})

	Convey("Given a closed queue", t, func() {
		r := newMockReader(`{"kind":"authorization","status":"denied"}`)
		q := queue.NewInMemoryQueue()
		So(q.Close(), ShouldBeNil)
		s := NewSource(r, q)

		Convey("Then the source stops without committing", func() {
			So(s.Run(context.Background()), ShouldBeNil)
			So(r.committed, ShouldBeEmpty)
		})
	})

	Convey("Given a message delivered twice under the same id", t, func() {
		body := `{"id":"m-1","kind":"authorization","status":"denied"}`
		r := newMockReader(body, body, `{"kind":"authorization","status":"denied"}`)
		q := queue.NewInMemoryQueue()
		s := NewSource(r, q)

		Convey("Then the redelivery is committed but not queued", func() {
			So(s.Run(context.Background()), ShouldBeNil)
			So(q.Len(), ShouldEqual, 2)
			So(r.committed, ShouldResemble, []int64{0, 1, 2})
		})
	})

	Convey("Given a message that could not be queued", t, func() {
		seen := dedupe.NewInMemoryDeduper()
		closed := queue.NewInMemoryQueue()
		So(closed.Close(), ShouldBeNil)
		body := `{"id":"m-2","kind":"authorization","status":"denied"}`
		So(NewSource(newMockReader(body), closed, WithDeduper(seen)).Run(context.Background()), ShouldBeNil)

		Convey("Then its redelivery is still applied", func() {
			So(seen.Size(), ShouldEqual, int64(0))
			q := queue.NewInMemoryQueue()
			So(NewSource(newMockReader(body), q, WithDeduper(seen)).Run(context.Background()), ShouldBeNil)
			So(q.Len(), ShouldEqual, 1)
		})
	})
}
