package domain

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the only accepted wire format for checkin/checkout.
const DateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate accepts YYYY-MM-DD strings that name a real calendar day.
// The result is midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	if !dateRe.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Stay is a half-open date interval [Checkin, Checkout).
type Stay struct {
	Checkin  time.Time
	Checkout time.Time
}

// NewStay parses both ends and requires checkin < checkout.
func NewStay(checkin, checkout string) (Stay, bool) {
	in, ok := ParseDate(checkin)
	if !ok {
		return Stay{}, false
	}
	out, ok := ParseDate(checkout)
	if !ok {
		return Stay{}, false
	}
	if !in.Before(out) {
		return Stay{}, false
	}
	return Stay{Checkin: in, Checkout: out}, true
}

// Overlaps reports whether two stays share at least one night.
// Touching endpoints (one checkout == other checkin) do not overlap.
func (s Stay) Overlaps(o Stay) bool {
	return o.Checkin.Before(s.Checkout) && s.Checkin.Before(o.Checkout)
}

func (s Stay) CheckinString() string  { return s.Checkin.Format(DateLayout) }
func (s Stay) CheckoutString() string { return s.Checkout.Format(DateLayout) }

type Booking struct {
	TransactionID int64
	UserID        int64
	HotelID       int64
	Stay          Stay
}

// BookingParams are the raw request fields; validation happens in the app layer.
type BookingParams struct {
	HotelID  string
	Checkin  string
	Checkout string
}

// Outcome classifies a booking attempt.
type Outcome string

const (
	OutcomeValidated        Outcome = "VALIDATED"
	OutcomeNotLoggedIn      Outcome = "NOT_LOGGED_IN"
	OutcomeMissingParams    Outcome = "MISSING_PARAMS"
	OutcomeInvalidDates     Outcome = "INVALID_DATES"
	OutcomeUserNotFound     Outcome = "USER_NOT_FOUND"
	OutcomeHotelNotFound    Outcome = "HOTEL_NOT_FOUND"
	OutcomeHotelUnavailable Outcome = "HOTEL_UNAVAILABLE"
	OutcomeServerError      Outcome = "SERVER_ERROR"
	OutcomeBooked           Outcome = "BOOKED"
)

var outcomeMessages = map[Outcome]string{
	OutcomeNotLoggedIn:      "You need to log in first to make a booking",
	OutcomeMissingParams:    "Missing required parameters",
	OutcomeInvalidDates:     "The dates are invalid",
	OutcomeUserNotFound:     "user is not found",
	OutcomeHotelNotFound:    "hotel is not found",
	OutcomeHotelUnavailable: "We're extremely sorry, this hotel has already been booked in this timeslot, please choose a different date.",
	OutcomeServerError:      ServerErrorMessage,
}

// ServerErrorMessage is the only thing a client ever learns about a server-side failure.
const ServerErrorMessage = "An error occurred on the server. Try again later."

// Message returns the user-facing text for a rejection outcome.
func (o Outcome) Message() string { return outcomeMessages[o] }

type ResultStatus int

const (
	StatusSuccess ResultStatus = iota
	StatusRejected
	StatusServerError
)

type BookingResult struct {
	Status        ResultStatus
	TransactionID int64
	Reason        Outcome
	Message       string
}

func Booked(id int64) BookingResult {
	return BookingResult{
		Status:        StatusSuccess,
		TransactionID: id,
		Reason:        OutcomeBooked,
		Message:       fmt.Sprintf("Booked successfully! Your transaction number is %d", id),
	}
}

func Rejected(o Outcome) BookingResult {
	return BookingResult{Status: StatusRejected, Reason: o, Message: o.Message()}
}

func ServerFailure() BookingResult {
	return BookingResult{Status: StatusServerError, Reason: OutcomeServerError, Message: ServerErrorMessage}
}
