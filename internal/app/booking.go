package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"inhotel/internal/domain"
)

var errUnavailable = errors.New("hotel already booked for these dates")

type BookingService struct {
	validator *BookingValidator
	store     domain.BookingStore
	events    domain.BookingEvents
}

// NewBookingService wires the orchestrator. events may be nil.
func NewBookingService(u domain.UserDirectory, h domain.HotelDirectory, s domain.BookingStore, ev domain.BookingEvents) *BookingService {
	return &BookingService{
		validator: NewBookingValidator(u, h),
		store:     s,
		events:    ev,
	}
}

// AttemptBooking validates the request, checks availability and inserts the
// booking. The insert is the only write; every earlier exit leaves the store
// untouched.
func (s *BookingService) AttemptBooking(ctx context.Context, session string, p domain.BookingParams) domain.BookingResult {
	v := s.validator.Validate(ctx, session, p)
	switch v.Outcome {
	case domain.OutcomeValidated:
	case domain.OutcomeServerError:
		log.Error().Err(v.Err).Str("hid", p.HotelID).Msg("booking validation hit the store")
		return domain.ServerFailure()
	default:
		return domain.Rejected(v.Outcome)
	}

	b := v.Booking
	err := s.store.WithHotelLock(ctx, b.HotelID, func(tx domain.BookingStore) error {
		ok, err := NewAvailabilityChecker(tx).IsAvailable(ctx, b.HotelID, b.Stay)
		if err != nil {
			return err
		}
		if !ok {
			return errUnavailable
		}
		id, err := tx.InsertBooking(ctx, b)
		if err != nil {
			return err
		}
		b.TransactionID = id
		return nil
	})
	switch {
	case errors.Is(err, errUnavailable):
		return domain.Rejected(domain.OutcomeHotelUnavailable)
	case errors.Is(err, domain.ErrNotFound):
		// hotel row vanished between validation and lock
		return domain.Rejected(domain.OutcomeHotelNotFound)
	case err != nil:
		log.Error().Err(err).Int64("hid", b.HotelID).Int64("uid", b.UserID).Msg("booking write failed")
		return domain.ServerFailure()
	}

	if s.events != nil {
		if err := s.events.BookingCreated(ctx, b); err != nil {
			log.Warn().Err(err).Int64("transaction_id", b.TransactionID).Msg("booking event not published")
		}
	}
	return domain.Booked(b.TransactionID)
}
