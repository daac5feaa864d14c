package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"inhotel/internal/domain"
)

var (
	ErrBufferFull = errors.New("events: publish buffer full")
	ErrClosed     = errors.New("events: publisher closed")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer queues booking events and writes them to Kafka from a single
// goroutine, keyed by hotel id so one hotel's events stay ordered.
type Producer struct {
	w        messageWriter
	producer string
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	inbox  chan kafka.Message
	done   chan struct{}
}

func NewProducer(brokers []string, topic, producer string, buf int) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, producer, buf)
}

func newProducer(w messageWriter, producer string, buf int) *Producer {
	if buf <= 0 {
		buf = 256
	}
	return &Producer{
		w:        w,
		producer: producer,
		timeout:  5 * time.Second,
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
	}
}

// Start runs the write loop until Close.
func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				log.Error().Err(err).Str("key", string(m.Key)).Msg("kafka write failed")
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			log.Warn().Err(err).Msg("kafka writer close failed")
		}
	}()
}

// BookingCreated enqueues the event without blocking the request.
func (p *Producer) BookingCreated(ctx context.Context, b domain.Booking) error {
	env, err := NewBookingCreated(p.producer, b, time.Now())
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(b.HotelID, 10)),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventBookingCreated)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// Close flushes queued events and waits for the writer to shut down.
// Start must have been called.
func (p *Producer) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) BookingCreated(context.Context, domain.Booking) error { return nil }
