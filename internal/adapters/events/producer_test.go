package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inhotel/internal/domain"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func booking(t *testing.T) domain.Booking {
	t.Helper()
	stay, ok := domain.NewStay("2024-01-10", "2024-01-15")
	require.True(t, ok)
	return domain.Booking{TransactionID: 42, UserID: 1, HotelID: 7, Stay: stay}
}

func TestNewBookingCreated(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	env, err := NewBookingCreated("inhotel", booking(t), now)
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, EventBookingCreated, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.Equal(t, "42", env.CorrelationID)

	var p BookingCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, BookingCreatedPayload{TransactionID: 42, UserID: 1, HotelID: 7, Checkin: "2024-01-10", Checkout: "2024-01-15"}, p)
}

func TestProducer_FlushesOnClose(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, "inhotel", 4)
	p.Start()

	require.NoError(t, p.BookingCreated(context.Background(), booking(t)))
	p.Close()

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "7", string(w.msgs[0].Key))
	assert.True(t, w.closed)

	assert.ErrorIs(t, p.BookingCreated(context.Background(), booking(t)), ErrClosed)
}

func TestProducer_BufferFull(t *testing.T) {
	p := newProducer(&recordingWriter{}, "inhotel", 1)
	// not started, so nothing drains the inbox
	require.NoError(t, p.BookingCreated(context.Background(), booking(t)))
	assert.ErrorIs(t, p.BookingCreated(context.Background(), booking(t)), ErrBufferFull)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.BookingCreated(context.Background(), domain.Booking{}))
}
