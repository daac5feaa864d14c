package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"inhotel/internal/domain"
)

// BookingValidator checks booking preconditions in a fixed precedence order;
// the first failing check decides the outcome.
type BookingValidator struct {
	users  domain.UserDirectory
	hotels domain.HotelDirectory
}

func NewBookingValidator(u domain.UserDirectory, h domain.HotelDirectory) *BookingValidator {
	return &BookingValidator{users: u, hotels: h}
}

// Validation is the result of one Validate call. Booking is only populated
// for OutcomeValidated; Err only for OutcomeServerError.
type Validation struct {
	Outcome domain.Outcome
	Booking domain.Booking
	Err     error
}

func (v *BookingValidator) Validate(ctx context.Context, session string, p domain.BookingParams) Validation {
	if session == "" {
		return Validation{Outcome: domain.OutcomeNotLoggedIn}
	}
	if blank(p.HotelID) || blank(p.Checkin) || blank(p.Checkout) {
		return Validation{Outcome: domain.OutcomeMissingParams}
	}
	stay, ok := domain.NewStay(p.Checkin, p.Checkout)
	if !ok {
		return Validation{Outcome: domain.OutcomeInvalidDates}
	}

	// user before hotel
	uid, err := strconv.ParseInt(session, 10, 64)
	if err != nil {
		return Validation{Outcome: domain.OutcomeUserNotFound}
	}
	found, err := v.users.UserExists(ctx, uid)
	if err != nil {
		return Validation{Outcome: domain.OutcomeServerError, Err: fmt.Errorf("user lookup: %w", err)}
	}
	if !found {
		return Validation{Outcome: domain.OutcomeUserNotFound}
	}

	hid, err := strconv.ParseInt(p.HotelID, 10, 64)
	if err != nil {
		return Validation{Outcome: domain.OutcomeHotelNotFound}
	}
	found, err = v.hotels.HotelExists(ctx, hid)
	if err != nil {
		return Validation{Outcome: domain.OutcomeServerError, Err: fmt.Errorf("hotel lookup: %w", err)}
	}
	if !found {
		return Validation{Outcome: domain.OutcomeHotelNotFound}
	}

	return Validation{
		Outcome: domain.OutcomeValidated,
		Booking: domain.Booking{UserID: uid, HotelID: hid, Stay: stay},
	}
}

// blank fields count as missing; anything else is validated as sent.
func blank(s string) bool { return strings.TrimSpace(s) == "" }
