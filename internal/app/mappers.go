package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"inhotel/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Seed records use the column names; the short forms are accepted too.
var hotelAliases = map[string][]string{
	"id":      {"hid", "id"},
	"name":    {"hotelName", "name"},
	"country": {"country"},
	"price":   {"price_per_night", "price"},
	"image":   {"imageSrc", "image"},
}

var userAliases = map[string][]string{
	"id":       {"uid", "id"},
	"name":     {"name", "username"},
	"password": {"password"},
}

var errSeedRecord = errors.New("invalid seed record")

/********** tiny helpers **********/

// lookupStr returns the string at key or "".
func lookupStr(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// firstNonEmptyAlias: first non-blank string for a named alias set, trimmed.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return &s
		}
	}
	return nil
}

// firstVerbatim returns the first non-empty string among keys, untouched.
func firstVerbatim(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := lookupStr(m, k); s != "" {
			return s
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// firstWholeNumber reads an integer from the first alias present, as a JSON
// number or a base-10 string. Fractional or malformed values are errors,
// never rounded.
func firstWholeNumber(m map[string]any, paths ...string) (*int64, error) {
	for _, k := range paths {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch v := v.(type) {
		case float64:
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%s: %v is not a whole number", k, v)
			}
			x := int64(v)
			return &x, nil
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %q is not a whole number", k, v)
			}
			return &n, nil
		default:
			return nil, fmt.Errorf("%s: unsupported type %T", k, v)
		}
	}
	return nil, nil
}

/********** seed mappers **********/

// mapSeedHotel turns one seed record into a Hotel.
func mapSeedHotel(raw map[string]any) (domain.Hotel, error) {
	id, err := firstWholeNumber(raw, hotelAliases["id"]...)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("%w: hotel id: %v", errSeedRecord, err)
	}
	if id == nil || *id <= 0 {
		return domain.Hotel{}, fmt.Errorf("%w: hotel without id", errSeedRecord)
	}
	name := deref(firstNonEmptyAlias(raw, hotelAliases, "name"))
	if name == "" {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %d without name", errSeedRecord, *id)
	}
	price, err := firstWholeNumber(raw, hotelAliases["price"]...)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %d price: %v", errSeedRecord, *id, err)
	}
	if price == nil || *price < 0 {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %d without a valid price", errSeedRecord, *id)
	}

	return domain.Hotel{
		ID:            *id,
		Name:          name,
		Country:       deref(firstNonEmptyAlias(raw, hotelAliases, "country")),
		PricePerNight: *price,
		ImageSrc:      firstNonEmptyAlias(raw, hotelAliases, "image"),
	}, nil
}

// mapSeedUser keeps the password as given; encoding happens in the service.
func mapSeedUser(raw map[string]any) (domain.UserCredential, error) {
	id, err := firstWholeNumber(raw, userAliases["id"]...)
	if err != nil {
		return domain.UserCredential{}, fmt.Errorf("%w: user id: %v", errSeedRecord, err)
	}
	if id == nil || *id <= 0 {
		return domain.UserCredential{}, fmt.Errorf("%w: user without id", errSeedRecord)
	}
	// login matches both exactly, so neither is trimmed
	name := firstVerbatim(raw, userAliases["name"]...)
	if name == "" {
		return domain.UserCredential{}, fmt.Errorf("%w: user %d without name", errSeedRecord, *id)
	}
	pw := firstVerbatim(raw, userAliases["password"]...)
	if pw == "" {
		return domain.UserCredential{}, fmt.Errorf("%w: user %d without password", errSeedRecord, *id)
	}
	return domain.UserCredential{ID: *id, Name: name, Password: pw}, nil
}
