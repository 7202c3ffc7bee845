package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
)

// Ledger owns booking records and protects the one invariant that matters:
// for any room, no two non-cancelled bookings overlap.
type Ledger struct {
	bookings domain.BookingRepository
	catalog  domain.CatalogRepository
	cache    domain.Cache
}

func NewLedger(b domain.BookingRepository, c domain.CatalogRepository, cache domain.Cache) *Ledger {
	return &Ledger{bookings: b, catalog: c, cache: cache}
}

type BookingRequest struct {
	RoomID   int64
	UserID   int64
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// IsAvailable reports whether the room is free for [checkIn, checkOut).
// Availability is always computed from the bookings table, never cached.
// Callers must ensure checkIn < checkOut.
func (s *Ledger) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	return s.bookings.IsAvailable(ctx, roomID, domain.DateOnly(checkIn), domain.DateOnly(checkOut))
}

// CreateBooking validates in order, first failure wins: date range, guest
// positivity, availability, capacity. On success it persists a confirmed
// booking priced at nights x nightly rate. The repository re-verifies the
// overlap under a per-room lock, so a concurrent creator for the same
// dates loses with ErrRoomUnavailable rather than double-booking.
func (s *Ledger) CreateBooking(ctx context.Context, req BookingRequest) (domain.Booking, error) {
	in := domain.DateOnly(req.CheckIn)
	out := domain.DateOnly(req.CheckOut)

	if !in.Before(out) {
		return domain.Booking{}, domain.ErrInvalidDateRange
	}
	if req.Guests < 1 {
		return domain.Booking{}, domain.ErrInvalidGuestCount
	}

	room, err := s.catalog.GetRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Booking{}, err
	}

	avail, err := s.bookings.IsAvailable(ctx, room.ID, in, out)
	if err != nil {
		return domain.Booking{}, err
	}
	if !avail {
		return domain.Booking{}, domain.ErrRoomUnavailable
	}

	if req.Guests > room.Capacity {
		return domain.Booking{}, domain.ErrCapacityExceeded
	}

	nights := domain.Nights(in, out)
	b := domain.Booking{
		UserID:     req.UserID,
		RoomID:     room.ID,
		CheckIn:    in,
		CheckOut:   out,
		Guests:     req.Guests,
		TotalPrice: int64(nights) * room.PricePerNight,
		Status:     domain.StatusConfirmed,
	}

	created, err := s.bookings.InsertBooking(ctx, b)
	if err != nil {
		return domain.Booking{}, err
	}

	log.Info().
		Int64("booking_id", created.ID).
		Int64("room_id", created.RoomID).
		Int64("total_price", created.TotalPrice).
		Msg("booking created")
	s.invalidateStats(ctx)
	return created, nil
}

// CancelBooking sets the booking to cancelled. The actor must own the
// booking or hold admin authority. Cancelling an already-cancelled
// booking is a no-op success.
func (s *Ledger) CancelBooking(ctx context.Context, bookingID int64, actor domain.Actor) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !actor.CanManage(b.UserID) {
		return domain.Booking{}, domain.ErrForbidden
	}
	if b.Status == domain.StatusCancelled {
		return b, nil
	}
	updated, err := s.bookings.UpdateBookingStatus(ctx, b.ID, domain.StatusCancelled)
	if err != nil {
		return domain.Booking{}, err
	}
	s.invalidateStats(ctx)
	return updated, nil
}

// ConfirmBooking is the administrative pending -> confirmed transition.
// Already confirmed is a no-op success; cancellation is terminal. The
// checks here are a fast path; the repository re-verifies the transition
// against the stored status under a row lock, so a cancel that lands
// between the read and the write wins.
func (s *Ledger) ConfirmBooking(ctx context.Context, bookingID int64) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status == domain.StatusConfirmed {
		return b, nil
	}
	if !b.Status.CanTransitionTo(domain.StatusConfirmed) {
		return domain.Booking{}, domain.ErrInvalidTransition
	}
	updated, err := s.bookings.UpdateBookingStatus(ctx, b.ID, domain.StatusConfirmed)
	if err != nil {
		return domain.Booking{}, err
	}
	s.invalidateStats(ctx)
	return updated, nil
}

// MyBookings lists the user's bookings, newest first.
func (s *Ledger) MyBookings(ctx context.Context, userID int64) ([]domain.BookingView, error) {
	return s.bookings.ListBookingsByUser(ctx, userID)
}

func (s *Ledger) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, statsCacheKey)
}
