package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inhotel/internal/app"
	"inhotel/internal/domain"
	"inhotel/internal/testutil/memstore"
)

var errBoom = errors.New("boom")

type directories struct {
	users, hotels     map[int64]bool
	userErr, hotelErr error
	hotelCalls        int
}

func (d *directories) UserExists(_ context.Context, uid int64) (bool, error) {
	return d.users[uid], d.userErr
}

func (d *directories) CredentialsByName(context.Context, string) ([]domain.UserCredential, error) {
	return nil, nil
}

func (d *directories) HotelExists(_ context.Context, hid int64) (bool, error) {
	d.hotelCalls++
	return d.hotels[hid], d.hotelErr
}

func params(hid, in, out string) domain.BookingParams {
	return domain.BookingParams{HotelID: hid, Checkin: in, Checkout: out}
}

func TestValidate_Precedence(t *testing.T) {
	cases := []struct {
		name    string
		session string
		p       domain.BookingParams
		dirs    directories
		want    domain.Outcome
	}{
		{"no session beats everything", "", params("", "bad", ""), directories{}, domain.OutcomeNotLoggedIn},
		{"missing hid", "1", params("", "2024-01-10", "2024-01-12"), directories{}, domain.OutcomeMissingParams},
		{"missing checkout", "1", params("1", "2024-01-10", ""), directories{}, domain.OutcomeMissingParams},
		{"missing beats invalid", "1", params("1", "garbage", ""), directories{}, domain.OutcomeMissingParams},
		{"whitespace-only is missing", "1", params(" ", "2024-01-10", "2024-01-12"), directories{}, domain.OutcomeMissingParams},
		{"padded date", "1", params("1", " 2024-01-10", "2024-01-12"), directories{}, domain.OutcomeInvalidDates},
		{"bad calendar day", "1", params("1", "2024-02-30", "2024-03-01"), directories{}, domain.OutcomeInvalidDates},
		{"reversed range", "1", params("1", "2024-01-12", "2024-01-10"), directories{}, domain.OutcomeInvalidDates},
		{"zero nights", "1", params("1", "2024-01-10", "2024-01-10"), directories{}, domain.OutcomeInvalidDates},
		{"invalid dates beat unknown user", "99", params("1", "01-01-2024", "2024-01-10"), directories{}, domain.OutcomeInvalidDates},
		{"non-integer session", "abc", params("1", "2024-01-10", "2024-01-12"), directories{}, domain.OutcomeUserNotFound},
		{"unknown user beats unknown hotel", "2", params("9", "2024-01-10", "2024-01-12"),
			directories{users: map[int64]bool{1: true}}, domain.OutcomeUserNotFound},
		{"unknown hotel", "1", params("9", "2024-01-10", "2024-01-12"),
			directories{users: map[int64]bool{1: true}}, domain.OutcomeHotelNotFound},
		{"non-integer hid", "1", params("x1", "2024-01-10", "2024-01-12"),
			directories{users: map[int64]bool{1: true}}, domain.OutcomeHotelNotFound},
		{"user store failure", "1", params("1", "2024-01-10", "2024-01-12"),
			directories{userErr: errBoom}, domain.OutcomeServerError},
		{"hotel store failure", "1", params("1", "2024-01-10", "2024-01-12"),
			directories{users: map[int64]bool{1: true}, hotelErr: errBoom}, domain.OutcomeServerError},
		{"valid", "1", params("3", "2024-02-28", "2024-02-29"),
			directories{users: map[int64]bool{1: true}, hotels: map[int64]bool{3: true}}, domain.OutcomeValidated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.dirs
			v := app.NewBookingValidator(&d, &d).Validate(context.Background(), tc.session, tc.p)
			assert.Equal(t, tc.want, v.Outcome)
			if tc.want == domain.OutcomeServerError {
				assert.ErrorIs(t, v.Err, errBoom)
			}
		})
	}
}

func TestValidate_UserCheckedBeforeHotel(t *testing.T) {
	d := &directories{}
	v := app.NewBookingValidator(d, d).Validate(context.Background(), "5", params("1", "2024-01-10", "2024-01-12"))
	assert.Equal(t, domain.OutcomeUserNotFound, v.Outcome)
	assert.Zero(t, d.hotelCalls)
}

func TestValidate_PopulatesBooking(t *testing.T) {
	d := &directories{users: map[int64]bool{4: true}, hotels: map[int64]bool{8: true}}
	v := app.NewBookingValidator(d, d).Validate(context.Background(), "4", params("8", "2024-01-10", "2024-01-12"))
	require.Equal(t, domain.OutcomeValidated, v.Outcome)
	assert.EqualValues(t, 4, v.Booking.UserID)
	assert.EqualValues(t, 8, v.Booking.HotelID)
	assert.Equal(t, "2024-01-12", v.Booking.Stay.CheckoutString())
}

// ---- availability ----

type listerFunc func(ctx context.Context, hid int64) ([]domain.Booking, error)

func (f listerFunc) ListBookings(ctx context.Context, hid int64) ([]domain.Booking, error) {
	return f(ctx, hid)
}

func stay(t *testing.T, in, out string) domain.Stay {
	t.Helper()
	s, ok := domain.NewStay(in, out)
	require.True(t, ok)
	return s
}

func TestIsAvailable(t *testing.T) {
	existing := []domain.Booking{{HotelID: 1, Stay: stay(t, "2024-01-10", "2024-01-15")}}
	c := app.NewAvailabilityChecker(listerFunc(func(context.Context, int64) ([]domain.Booking, error) {
		return existing, nil
	}))
	ctx := context.Background()

	cases := []struct {
		in, out string
		want    bool
	}{
		{"2024-01-12", "2024-01-20", false},
		{"2024-01-15", "2024-01-20", true},
		{"2024-01-05", "2024-01-10", true},
		{"2024-01-01", "2024-02-01", false},
		{"2024-01-11", "2024-01-12", false},
	}
	for _, tc := range cases {
		ok, err := c.IsAvailable(ctx, 1, stay(t, tc.in, tc.out))
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s..%s", tc.in, tc.out)

		// idempotent without inserts
		again, err := c.IsAvailable(ctx, 1, stay(t, tc.in, tc.out))
		require.NoError(t, err)
		assert.Equal(t, ok, again)
	}
}

func TestIsAvailable_NoBookingsAndErrors(t *testing.T) {
	ctx := context.Background()
	empty := app.NewAvailabilityChecker(listerFunc(func(context.Context, int64) ([]domain.Booking, error) { return nil, nil }))
	ok, err := empty.IsAvailable(ctx, 1, stay(t, "2024-01-10", "2024-01-11"))
	require.NoError(t, err)
	assert.True(t, ok)

	broken := app.NewAvailabilityChecker(listerFunc(func(context.Context, int64) ([]domain.Booking, error) { return nil, errBoom }))
	_, err = broken.IsAvailable(ctx, 1, stay(t, "2024-01-10", "2024-01-11"))
	assert.ErrorIs(t, err, errBoom)
}

// ---- orchestrator ----

type recordedEvents struct {
	mu   sync.Mutex
	got  []domain.Booking
	fail error
}

func (r *recordedEvents) BookingCreated(_ context.Context, b domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, b)
	return r.fail
}

type failingInsert struct{ *memstore.Store }

func (f failingInsert) InsertBooking(context.Context, domain.Booking) (int64, error) { return 0, errBoom }

func (f failingInsert) WithHotelLock(_ context.Context, _ int64, fn func(domain.BookingStore) error) error {
	return fn(f)
}

func TestAttemptBooking_SuccessThenOverlap(t *testing.T) {
	store := seededStore(t)
	ev := &recordedEvents{}
	svc := app.NewBookingService(store, store, store, ev)
	ctx := context.Background()

	res := svc.AttemptBooking(ctx, "1", params("1", "2024-01-10", "2024-01-15"))
	require.Equal(t, domain.StatusSuccess, res.Status)
	assert.EqualValues(t, 1, res.TransactionID)
	assert.Equal(t, "Booked successfully! Your transaction number is 1", res.Message)
	require.Len(t, ev.got, 1)
	assert.EqualValues(t, 1, ev.got[0].TransactionID)

	res = svc.AttemptBooking(ctx, "1", params("1", "2024-01-12", "2024-01-20"))
	assert.Equal(t, domain.StatusRejected, res.Status)
	assert.Equal(t, domain.OutcomeHotelUnavailable, res.Reason)
	assert.Equal(t, domain.OutcomeHotelUnavailable.Message(), res.Message)

	// same-day turnover
	res = svc.AttemptBooking(ctx, "1", params("1", "2024-01-15", "2024-01-20"))
	assert.Equal(t, domain.StatusSuccess, res.Status)

	// other hotels are independent
	res = svc.AttemptBooking(ctx, "1", params("2", "2024-01-12", "2024-01-20"))
	assert.Equal(t, domain.StatusSuccess, res.Status)

	assert.Len(t, store.Bookings(), 3)
}

func TestAttemptBooking_RejectionsWriteNothing(t *testing.T) {
	store := seededStore(t)
	svc := app.NewBookingService(store, store, store, nil)
	ctx := context.Background()

	for _, tc := range []struct {
		session string
		p       domain.BookingParams
		want    domain.Outcome
	}{
		{"", params("1", "2024-01-10", "2024-01-15"), domain.OutcomeNotLoggedIn},
		{"1", params("1", "", "2024-01-15"), domain.OutcomeMissingParams},
		{"1", params("1", "2024-13-01", "2024-01-15"), domain.OutcomeInvalidDates},
		{"7", params("1", "2024-01-10", "2024-01-15"), domain.OutcomeUserNotFound},
		{"1", params("77", "2024-01-10", "2024-01-15"), domain.OutcomeHotelNotFound},
	} {
		res := svc.AttemptBooking(ctx, tc.session, tc.p)
		assert.Equal(t, domain.StatusRejected, res.Status)
		assert.Equal(t, tc.want, res.Reason)
		assert.Equal(t, tc.want.Message(), res.Message)
	}
	assert.Empty(t, store.Bookings())
}

func TestAttemptBooking_StoreFailures(t *testing.T) {
	ctx := context.Background()

	store := seededStore(t)
	store.Fail = errBoom
	res := app.NewBookingService(store, store, store, nil).AttemptBooking(ctx, "1", params("1", "2024-01-10", "2024-01-15"))
	assert.Equal(t, domain.StatusServerError, res.Status)
	assert.Equal(t, domain.ServerErrorMessage, res.Message)

	healthy := seededStore(t)
	ev := &recordedEvents{}
	res = app.NewBookingService(healthy, healthy, failingInsert{healthy}, ev).
		AttemptBooking(ctx, "1", params("1", "2024-01-10", "2024-01-15"))
	assert.Equal(t, domain.StatusServerError, res.Status)
	assert.Empty(t, ev.got)
}

func TestAttemptBooking_EventFailureDoesNotChangeResult(t *testing.T) {
	store := seededStore(t)
	ev := &recordedEvents{fail: errBoom}
	res := app.NewBookingService(store, store, store, ev).
		AttemptBooking(context.Background(), "1", params("1", "2024-01-10", "2024-01-15"))
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Len(t, ev.got, 1)
}

func TestAttemptBooking_ConcurrentSameSlot(t *testing.T) {
	store := seededStore(t)
	svc := app.NewBookingService(store, store, store, nil)

	const n = 8
	results := make([]domain.BookingResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.AttemptBooking(context.Background(), "1", params("3", "2024-05-01", "2024-05-03"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			wins++
		} else {
			assert.Equal(t, domain.OutcomeHotelUnavailable, r.Reason)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Len(t, store.Bookings(), 1)
}
