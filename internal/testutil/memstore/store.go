// Package memstore is an in-process implementation of the storage ports
// for service and handler tests. It is not a production store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"inhotel/internal/domain"
)

type Store struct {
	mu       sync.Mutex
	users    map[int64]domain.UserCredential
	hotels   map[int64]domain.Hotel
	bookings []domain.Booking
	nextTx   int64

	hotelLocks sync.Mutex

	// Fail, when set, is returned by every call.
	Fail error
}

func New() *Store {
	return &Store{users: map[int64]domain.UserCredential{}, hotels: map[int64]domain.Hotel{}}
}

func (s *Store) UserExists(_ context.Context, uid int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	_, ok := s.users[uid]
	return ok, nil
}

func (s *Store) CredentialsByName(_ context.Context, name string) ([]domain.UserCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	var out []domain.UserCredential
	for _, u := range s.users {
		if u.Name == name {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpsertUser(_ context.Context, u domain.UserCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.users[u.ID] = u
	return nil
}

func (s *Store) HotelExists(_ context.Context, hid int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	_, ok := s.hotels[hid]
	return ok, nil
}

func (s *Store) UpsertHotel(_ context.Context, h domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.hotels[h.ID] = h
	return nil
}

func (s *Store) GetHotel(_ context.Context, hid int64) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return domain.Hotel{}, s.Fail
	}
	h, ok := s.hotels[hid]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

// ListHotels mirrors the SQL store: names match case-insensitively as under
// the default MySQL collation.
func (s *Store) ListHotels(_ context.Context, f domain.HotelFilter) (domain.HotelList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return domain.HotelList{}, s.Fail
	}
	var hs []domain.Hotel
	for _, h := range s.hotels {
		if matches(h, f.Predicates()) {
			hs = append(hs, h)
		}
	}
	if f.Empty() {
		sort.Slice(hs, func(i, j int) bool {
			if hs[i].Name != hs[j].Name {
				return hs[i].Name < hs[j].Name
			}
			return hs[i].Country < hs[j].Country
		})
		return domain.HotelList{Hotels: append([]domain.Hotel{}, hs...)}, nil
	}
	refs := make([]domain.HotelRef, 0, len(hs))
	for _, h := range hs {
		refs = append(refs, domain.HotelRef{ID: h.ID})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return domain.HotelList{Refs: refs}, nil
}

func matches(h domain.Hotel, ps []domain.Predicate) bool {
	for _, p := range ps {
		switch p := p.(type) {
		case domain.NameLike:
			if !strings.Contains(strings.ToLower(h.Name), strings.ToLower(p.Term)) {
				return false
			}
		case domain.CountryEq:
			if !strings.EqualFold(h.Country, p.Country) {
				return false
			}
		case domain.PriceGte:
			if h.PricePerNight < p.Min {
				return false
			}
		case domain.PriceLte:
			if h.PricePerNight > p.Max {
				return false
			}
		}
	}
	return true
}

func (s *Store) ListBookings(_ context.Context, hid int64) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.HotelID == hid {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) InsertBooking(_ context.Context, b domain.Booking) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return 0, s.Fail
	}
	s.nextTx++
	b.TransactionID = s.nextTx
	s.bookings = append(s.bookings, b)
	return b.TransactionID, nil
}

// WithHotelLock serializes all locked sections. An error from fn does not
// undo writes fn already made.
func (s *Store) WithHotelLock(ctx context.Context, hid int64, fn func(tx domain.BookingStore) error) error {
	s.hotelLocks.Lock()
	defer s.hotelLocks.Unlock()
	ok, err := s.HotelExists(ctx, hid)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return fn(s)
}

func (s *Store) ListReservations(_ context.Context, uid int64) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	var bs []domain.Booking
	for _, b := range s.bookings {
		if b.UserID == uid {
			bs = append(bs, b)
		}
	}
	sort.SliceStable(bs, func(i, j int) bool {
		if !bs[i].Stay.Checkin.Equal(bs[j].Stay.Checkin) {
			return bs[i].Stay.Checkin.Before(bs[j].Stay.Checkin)
		}
		return bs[i].Stay.Checkout.Before(bs[j].Stay.Checkout)
	})
	out := make([]domain.Reservation, 0, len(bs))
	for _, b := range bs {
		h := s.hotels[b.HotelID]
		out = append(out, domain.Reservation{
			HotelName:     h.Name,
			ImageSrc:      h.ImageSrc,
			Checkin:       b.Stay.CheckinString(),
			Checkout:      b.Stay.CheckoutString(),
			PricePerNight: h.PricePerNight,
		})
	}
	return out, nil
}

// Bookings returns a copy of every stored booking, in insertion order.
func (s *Store) Bookings() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Booking(nil), s.bookings...)
}
