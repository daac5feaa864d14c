package app

import (
	"context"
	"fmt"

	"inhotel/internal/domain"
)

// SeedService loads hotels and users from seed records.
type SeedService struct {
	repo  domain.HotelRepository
	cache domain.Cache
	creds domain.CredentialVerifier
}

// NewSeedService wires the seeder. cache may be nil.
func NewSeedService(r domain.HotelRepository, cache domain.Cache, creds domain.CredentialVerifier) *SeedService {
	return &SeedService{repo: r, cache: cache, creds: creds}
}

// SeedHotel upserts one hotel and evicts its cached detail view. Cached
// search results expire on their own TTL.
func (s *SeedService) SeedHotel(ctx context.Context, raw map[string]any) (int64, error) {
	h, err := mapSeedHotel(raw)
	if err != nil {
		return 0, err
	}
	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return 0, fmt.Errorf("upsert hotel %d: %w", h.ID, err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelCacheKey(h.ID))
	}
	return h.ID, nil
}

// SeedUser upserts one user, storing the password in the configured form.
func (s *SeedService) SeedUser(ctx context.Context, raw map[string]any) (int64, error) {
	u, err := mapSeedUser(raw)
	if err != nil {
		return 0, err
	}
	enc, err := s.creds.Encode(u.Password)
	if err != nil {
		return 0, fmt.Errorf("encode password for user %d: %w", u.ID, err)
	}
	u.Password = enc
	if err := s.repo.UpsertUser(ctx, u); err != nil {
		return 0, fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return u.ID, nil
}
