package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inhotel/internal/domain"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-10", true},
		{"2024-02-29", true}, // leap year
		{"2023-02-29", false},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"01-01-2024", false},
		{"2024-1-01", false},
		{"2024-01-01T00:00:00Z", false},
		{" 2024-01-01", false},
		{"", false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			_, ok := domain.ParseDate(c.in)
			assert.Equal(t, c.ok, ok)
		})
	}
}

func TestNewStay_RequiresCheckinBeforeCheckout(t *testing.T) {
	_, ok := domain.NewStay("2024-01-10", "2024-01-10")
	assert.False(t, ok, "same day")

	_, ok = domain.NewStay("2024-01-11", "2024-01-10")
	assert.False(t, ok, "reversed")

	s, ok := domain.NewStay("2024-01-10", "2024-01-11")
	require.True(t, ok)
	assert.Equal(t, "2024-01-10", s.CheckinString())
	assert.Equal(t, "2024-01-11", s.CheckoutString())
}

func mustStay(t *testing.T, in, out string) domain.Stay {
	t.Helper()
	s, ok := domain.NewStay(in, out)
	require.True(t, ok, "bad stay %s..%s", in, out)
	return s
}

func TestStay_Overlaps(t *testing.T) {
	existing := mustStay(t, "2024-01-10", "2024-01-15")

	cases := []struct {
		name    string
		in, out string
		overlap bool
	}{
		{"inside tail", "2024-01-12", "2024-01-20", true},
		{"inside head", "2024-01-05", "2024-01-11", true},
		{"contains", "2024-01-01", "2024-01-31", true},
		{"contained", "2024-01-11", "2024-01-12", true},
		{"identical", "2024-01-10", "2024-01-15", true},
		{"touching checkout", "2024-01-15", "2024-01-20", false},
		{"touching checkin", "2024-01-05", "2024-01-10", false},
		{"disjoint", "2024-02-01", "2024-02-03", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := mustStay(t, c.in, c.out)
			assert.Equal(t, c.overlap, existing.Overlaps(n))
			assert.Equal(t, c.overlap, n.Overlaps(existing), "symmetric")
		})
	}
}

func TestOutcomeMessages(t *testing.T) {
	r := domain.Rejected(domain.OutcomeNotLoggedIn)
	assert.Equal(t, domain.StatusRejected, r.Status)
	assert.Equal(t, "You need to log in first to make a booking", r.Message)

	s := domain.ServerFailure()
	assert.Equal(t, domain.StatusServerError, s.Status)
	assert.Equal(t, domain.ServerErrorMessage, s.Message)

	b := domain.Booked(7)
	assert.Equal(t, domain.StatusSuccess, b.Status)
	assert.EqualValues(t, 7, b.TransactionID)
	assert.Equal(t, "Booked successfully! Your transaction number is 7", b.Message)
}
