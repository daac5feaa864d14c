package domain

import "context"

// UserDirectory answers identity questions about users.
type UserDirectory interface {
	UserExists(ctx context.Context, uid int64) (bool, error)
	// CredentialsByName returns every user with this exact name, ordered by uid.
	CredentialsByName(ctx context.Context, name string) ([]UserCredential, error)
}

type HotelDirectory interface {
	HotelExists(ctx context.Context, hid int64) (bool, error)
}

type BookingLister interface {
	ListBookings(ctx context.Context, hid int64) ([]Booking, error)
}

// BookingStore is the store surface the booking orchestrator needs.
type BookingStore interface {
	BookingLister
	InsertBooking(ctx context.Context, b Booking) (int64, error)
	// WithHotelLock runs fn in a transaction that holds a row lock on hotel hid,
	// so that check-then-insert for one hotel is serialized. fn sees a store
	// bound to that transaction. A non-nil error from fn rolls back.
	WithHotelLock(ctx context.Context, hid int64, fn func(tx BookingStore) error) error
}

type HotelRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) error
	UpsertUser(ctx context.Context, u UserCredential) error

	// Read paths
	GetHotel(ctx context.Context, hid int64) (Hotel, error)
	ListHotels(ctx context.Context, f HotelFilter) (HotelList, error)
	ListReservations(ctx context.Context, uid int64) ([]Reservation, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CredentialVerifier decides whether a presented password matches the stored
// one. Encode produces the stored form of a new password.
type CredentialVerifier interface {
	Verify(stored, presented string) bool
	Encode(password string) (string, error)
}

// BookingEvents is notified after a booking has been committed.
type BookingEvents interface {
	BookingCreated(ctx context.Context, b Booking) error
}

type PlacesClient interface {
	Details(ctx context.Context, placeID string, fields []string) (map[string]any, error)
}
