package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inhotel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo is the MySQL store. A Repo built by New runs on the pool; the one handed
// to a WithHotelLock callback runs on that callback's transaction.
type Repo struct {
	db *sql.DB
	q  querier
}

func New(db *sql.DB) *Repo { return &Repo{db: db, q: db} }

// ---- users ----

func (r *Repo) UserExists(ctx context.Context, uid int64) (bool, error) {
	return r.exists(ctx, userExistsSQL, uid)
}

func (r *Repo) CredentialsByName(ctx context.Context, name string) ([]domain.UserCredential, error) {
	rows, err := r.q.QueryContext(ctx, credentialsByNameSQL, name)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var out []domain.UserCredential
	for rows.Next() {
		var c domain.UserCredential
		if err := rows.Scan(&c.ID, &c.Name, &c.Password); err != nil {
			return nil, fmt.Errorf("scan credentials: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) UpsertUser(ctx context.Context, u domain.UserCredential) error {
	_, err := r.q.ExecContext(ctx, upsertUserSQL, u.ID, u.Name, u.Password)
	return err
}

// ---- hotels ----

func (r *Repo) HotelExists(ctx context.Context, hid int64) (bool, error) {
	return r.exists(ctx, hotelExistsSQL, hid)
}

func (r *Repo) GetHotel(ctx context.Context, hid int64) (domain.Hotel, error) {
	var h domain.Hotel
	var img sql.NullString
	err := r.q.QueryRowContext(ctx, getHotelSQL, hid).
		Scan(&h.ID, &h.Name, &h.Country, &h.PricePerNight, &img)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, fmt.Errorf("get hotel %d: %w", hid, err)
	}
	h.ImageSrc = nullStr(img)
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, f domain.HotelFilter) (domain.HotelList, error) {
	query, args, err := BuildHotelQuery(f)
	if err != nil {
		return domain.HotelList{}, fmt.Errorf("build hotel query: %w", err)
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.HotelList{}, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	if f.Empty() {
		out := []domain.Hotel{}
		for rows.Next() {
			var h domain.Hotel
			var img sql.NullString
			if err := rows.Scan(&h.ID, &h.Name, &h.Country, &h.PricePerNight, &img); err != nil {
				return domain.HotelList{}, fmt.Errorf("scan hotel: %w", err)
			}
			h.ImageSrc = nullStr(img)
			out = append(out, h)
		}
		if err := rows.Err(); err != nil {
			return domain.HotelList{}, err
		}
		return domain.HotelList{Hotels: out}, nil
	}

	refs := []domain.HotelRef{}
	for rows.Next() {
		var ref domain.HotelRef
		if err := rows.Scan(&ref.ID); err != nil {
			return domain.HotelList{}, fmt.Errorf("scan hotel ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return domain.HotelList{}, err
	}
	return domain.HotelList{Refs: refs}, nil
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.q.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		h.Country,
		h.PricePerNight,
		valStr(h.ImageSrc),
	)
	return err
}

// ---- bookings ----

func (r *Repo) ListBookings(ctx context.Context, hid int64) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, listBookingsSQL, hid)
	if err != nil {
		return nil, fmt.Errorf("list bookings for hotel %d: %w", hid, err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var in, outDate string
		if err := rows.Scan(&b.TransactionID, &b.UserID, &b.HotelID, &in, &outDate); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		stay, ok := domain.NewStay(in, outDate)
		if !ok {
			return nil, fmt.Errorf("booking %d has invalid stay %s..%s", b.TransactionID, in, outDate)
		}
		b.Stay = stay
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) (int64, error) {
	res, err := r.q.ExecContext(ctx, insertBookingSQL,
		b.UserID,
		b.HotelID,
		b.Stay.CheckinString(),
		b.Stay.CheckoutString(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("booking id: %w", err)
	}
	return id, nil
}

func (r *Repo) WithHotelLock(ctx context.Context, hid int64, fn func(tx domain.BookingStore) error) error {
	if r.db == nil {
		// already bound to a transaction
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var locked int64
	if err := tx.QueryRowContext(ctx, lockHotelSQL, hid).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock hotel %d: %w", hid, err)
	}

	if err := fn(&Repo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}

func (r *Repo) ListReservations(ctx context.Context, uid int64) ([]domain.Reservation, error) {
	rows, err := r.q.QueryContext(ctx, listReservationsSQL, uid)
	if err != nil {
		return nil, fmt.Errorf("list reservations for user %d: %w", uid, err)
	}
	defer rows.Close()

	out := []domain.Reservation{}
	for rows.Next() {
		var rv domain.Reservation
		var img sql.NullString
		if err := rows.Scan(&rv.HotelName, &img, &rv.Checkin, &rv.Checkout, &rv.PricePerNight); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		rv.ImageSrc = nullStr(img)
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) exists(ctx context.Context, query string, id int64) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
