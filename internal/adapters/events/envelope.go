package events

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"inhotel/internal/domain"
)

const EventBookingCreated = "BookingCreated"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type BookingCreatedPayload struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"uid"`
	HotelID       int64  `json:"hid"`
	Checkin       string `json:"checkin"`
	Checkout      string `json:"checkout"`
}

// NewBookingCreated builds the envelope for a committed booking, correlated
// by transaction id.
func NewBookingCreated(producer string, b domain.Booking, now time.Time) (Envelope, error) {
	payload, err := json.Marshal(BookingCreatedPayload{
		TransactionID: b.TransactionID,
		UserID:        b.UserID,
		HotelID:       b.HotelID,
		Checkin:       b.Stay.CheckinString(),
		Checkout:      b.Stay.CheckoutString(),
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventBookingCreated,
		EventVersion:  1,
		OccurredAt:    now.UTC(),
		Producer:      producer,
		CorrelationID: strconv.FormatInt(b.TransactionID, 10),
		Payload:       payload,
	}, nil
}
