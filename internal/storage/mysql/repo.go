package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"staybook/internal/domain"
)

const dateLayout = "2006-01-02"

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// mapErr translates driver-level failures: lock waits and deadlocks become
// the retryable contention error, everything else passes through.
func mapErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1205, 1213: // lock wait timeout, deadlock
			return fmt.Errorf("%w: %v", domain.ErrStorageContention, err)
		}
	}
	return err
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// -----------------------------------------------------------------------------
// BookingRepository
// -----------------------------------------------------------------------------

// InsertBooking runs the availability re-check and the insert as one
// transaction. The room row lock serializes creators for the same room, so
// the loser of a race observes the winner's booking and gets
// ErrRoomUnavailable instead of committing an overlap.
func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var roomID, price int64
	var capacity int
	if err := tx.QueryRowContext(ctx, lockRoomSQL, b.RoomID).Scan(&roomID, &price, &capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, mapErr(err)
	}

	var conflicts int
	if err := tx.QueryRowContext(ctx, countOverlappingSQL,
		b.RoomID, b.CheckOut.Format(dateLayout), b.CheckIn.Format(dateLayout),
	).Scan(&conflicts); err != nil {
		return domain.Booking{}, mapErr(err)
	}
	if conflicts > 0 {
		return domain.Booking{}, domain.ErrRoomUnavailable
	}

	res, err := tx.ExecContext(ctx, insertBookingSQL,
		b.UserID, b.RoomID,
		b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout),
		b.Guests, b.TotalPrice, string(b.Status),
	)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, err
	}

	created, err := scanBooking(tx.QueryRowContext(ctx, getBookingSQL, id))
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Booking{}, mapErr(err)
	}
	committed = true
	return created, nil
}

// UpdateBookingStatus re-reads the booking under a row lock and enforces
// the state machine there, so a status that changed between the caller's
// read and this write cannot be overwritten. In particular a concurrent
// cancel wins: the locked re-read sees cancelled and the confirm gets
// ErrInvalidTransition instead of resurrecting the booking. Writing the
// current status again is a no-op success.
func (r *Repo) UpdateBookingStatus(ctx context.Context, id int64, st domain.Status) (domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cur, err := scanBooking(tx.QueryRowContext(ctx, getBookingForUpdateSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, mapErr(err)
	}
	if cur.Status == st {
		if err := tx.Commit(); err != nil {
			return domain.Booking{}, mapErr(err)
		}
		committed = true
		return cur, nil
	}
	if !cur.Status.CanTransitionTo(st) {
		return domain.Booking{}, domain.ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx, updateBookingStatusSQL, string(st), id); err != nil {
		return domain.Booking{}, mapErr(err)
	}
	updated, err := scanBooking(tx.QueryRowContext(ctx, getBookingSQL, id))
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Booking{}, mapErr(err)
	}
	committed = true
	return updated, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countOverlappingSQL,
		roomID, checkOut.Format(dateLayout), checkIn.Format(dateLayout),
	).Scan(&n)
	if err != nil {
		return false, mapErr(err)
	}
	return n == 0, nil
}

func (r *Repo) FindOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, selectOverlappingSQL,
		roomID, checkOut.Format(dateLayout), checkIn.Format(dateLayout))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ListBookingsByUser(ctx context.Context, userID int64) ([]domain.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByUserSQL, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectBookingViews(rows)
}

func (r *Repo) ListBookingsByStatus(ctx context.Context, st domain.Status, limit int) ([]domain.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByStatusSQL, string(st), string(st), limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectBookingViews(rows)
}

func (r *Repo) CountBookingsByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	rows, err := r.db.QueryContext(ctx, countBookingsByStatusSQL)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make(map[domain.Status]int64, 3)
	for rows.Next() {
		var st string
		var n int64
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[domain.Status(st)] = n
	}
	return out, rows.Err()
}

func (r *Repo) CountBookingsSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countBookingsSinceSQL, t.UTC()).Scan(&n)
	return n, mapErr(err)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanBooking(row rowScanner) (domain.Booking, error) {
	return scanBookingRow(row)
}

func scanBookingRow(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var st string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.RoomID,
		&b.CheckIn, &b.CheckOut,
		&b.Guests, &b.TotalPrice, &st,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.Status(st)
	b.CheckIn = domain.DateOnly(b.CheckIn)
	b.CheckOut = domain.DateOnly(b.CheckOut)
	return b, nil
}

func collectBookingViews(rows *sql.Rows) ([]domain.BookingView, error) {
	var out []domain.BookingView
	for rows.Next() {
		var v domain.BookingView
		var st string
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.RoomID,
			&v.CheckIn, &v.CheckOut,
			&v.Guests, &v.TotalPrice, &st,
			&v.CreatedAt, &v.UpdatedAt,
			&v.RoomName, &v.HotelID, &v.HotelName,
		); err != nil {
			return nil, err
		}
		v.Status = domain.Status(st)
		v.CheckIn = domain.DateOnly(v.CheckIn)
		v.CheckOut = domain.DateOnly(v.CheckOut)
		out = append(out, v)
	}
	return out, rows.Err()
}
