package domain

import (
	"strconv"
	"strings"
)

// HotelFilter holds the optional, already-trimmed search inputs of /hotels.
// Empty string means "not supplied".
type HotelFilter struct {
	Search  string
	Country string
	Min     string
	Max     string
}

// Predicate is one conjunct of a hotel search.
type Predicate interface{ predicate() }

type (
	NameLike  struct{ Term string }
	CountryEq struct{ Country string }
	PriceGte  struct{ Min int64 }
	PriceLte  struct{ Max int64 }
)

func (NameLike) predicate()  {}
func (CountryEq) predicate() {}
func (PriceGte) predicate()  {}
func (PriceLte) predicate()  {}

// FilterError is a client error found while parsing search inputs.
type FilterError struct{ Msg string }

func (e *FilterError) Error() string { return e.Msg }

var (
	ErrNonIntegerBounds = &FilterError{Msg: "please input integers for min and max"}
	ErrInvertedBounds   = &FilterError{Msg: "min must be less than or equal to max"}
)

// NewHotelFilter trims raw query values and checks the price bounds.
func NewHotelFilter(search, country, min, max string) (HotelFilter, error) {
	f := HotelFilter{
		Search:  strings.TrimSpace(search),
		Country: strings.TrimSpace(country),
		Min:     strings.TrimSpace(min),
		Max:     strings.TrimSpace(max),
	}
	lo, okLo := integerString(f.Min)
	hi, okHi := integerString(f.Max)
	if !okLo || !okHi {
		return HotelFilter{}, ErrNonIntegerBounds
	}
	if f.Min != "" && f.Max != "" && lo > hi {
		return HotelFilter{}, ErrInvertedBounds
	}
	return f, nil
}

// integerString accepts "" and canonical base-10 integers ("-3", "120"),
// rejecting "007", "+5", "1.5".
func integerString(s string) (int64, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != s {
		return 0, false
	}
	return n, true
}

// Empty reports whether no filter was supplied.
func (f HotelFilter) Empty() bool {
	return f.Search == "" && f.Country == "" && f.Min == "" && f.Max == ""
}

// Predicates returns the supplied conjuncts in a fixed order: name, country, min, max.
// Min/Max must have passed NewHotelFilter.
func (f HotelFilter) Predicates() []Predicate {
	var out []Predicate
	if f.Search != "" {
		out = append(out, NameLike{Term: f.Search})
	}
	if f.Country != "" {
		out = append(out, CountryEq{Country: f.Country})
	}
	if n, ok := integerString(f.Min); ok && f.Min != "" {
		out = append(out, PriceGte{Min: n})
	}
	if n, ok := integerString(f.Max); ok && f.Max != "" {
		out = append(out, PriceLte{Max: n})
	}
	return out
}

// CacheKey is a stable key for caching the result of this filter.
func (f HotelFilter) CacheKey() string {
	return "hotels:" + strconv.Quote(f.Search) + ":" + strings.ToLower(strconv.Quote(f.Country)) + ":" + f.Min + ":" + f.Max
}
