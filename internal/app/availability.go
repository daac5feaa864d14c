package app

import (
	"context"

	"inhotel/internal/domain"
)

type AvailabilityChecker struct {
	bookings domain.BookingLister
}

func NewAvailabilityChecker(b domain.BookingLister) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: b}
}

// IsAvailable reports whether no existing booking of hid overlaps stay.
// Store errors are returned as-is.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, hid int64, stay domain.Stay) (bool, error) {
	existing, err := c.bookings.ListBookings(ctx, hid)
	if err != nil {
		return false, err
	}
	for _, b := range existing {
		if b.Stay.Overlaps(stay) {
			return false, nil
		}
	}
	return true, nil
}
