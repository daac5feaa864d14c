package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"inhotel/internal/domain"
)

var ErrNotLoggedIn = errors.New("not logged in")

type QueryService struct {
	repo     domain.HotelRepository
	users    domain.UserDirectory
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the read side. c may be nil to disable caching.
func NewQueryService(r domain.HotelRepository, u domain.UserDirectory, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, users: u, cache: c, cacheTTL: ttl}
}

func hotelCacheKey(hid int64) string { return fmt.Sprintf("hotel:%d", hid) }

func (s *QueryService) GetHotel(ctx context.Context, hid int64) (domain.Hotel, error) {
	key := hotelCacheKey(hid)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, hid)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

// ListHotels returns full rows for an empty filter and hotel ids otherwise.
func (s *QueryService) ListHotels(ctx context.Context, f domain.HotelFilter) (domain.HotelList, error) {
	key := f.CacheKey()
	var out domain.HotelList
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	list, err := s.repo.ListHotels(ctx, f)
	if err != nil {
		return domain.HotelList{}, err
	}

	// copy slices to avoid aliasing the repo's backing arrays
	out = copyHotelList(list)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Reservations lists the bookings of the session user. It returns
// ErrNotLoggedIn for an empty session and domain.ErrNotFound for an unknown
// or malformed uid. Never cached: bookings change on every successful attempt.
func (s *QueryService) Reservations(ctx context.Context, session string) ([]domain.Reservation, error) {
	if session == "" {
		return nil, ErrNotLoggedIn
	}
	uid, err := strconv.ParseInt(session, 10, 64)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	ok, err := s.users.UserExists(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListReservations(ctx, uid)
}

func copyHotelList(in domain.HotelList) domain.HotelList {
	var out domain.HotelList
	if in.Hotels != nil {
		out.Hotels = make([]domain.Hotel, len(in.Hotels))
		copy(out.Hotels, in.Hotels)
	}
	if in.Refs != nil {
		out.Refs = make([]domain.HotelRef, len(in.Refs))
		copy(out.Refs, in.Refs)
	}
	return out
}
