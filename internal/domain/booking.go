package domain

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the booking state machine:
// pending -> confirmed, pending -> cancelled, confirmed -> cancelled.
// Nothing leaves cancelled.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

// Booking covers a room for the half-open interval [CheckIn, CheckOut).
// Dates are date-only values normalized to midnight UTC.
type Booking struct {
	ID         int64
	UserID     int64
	RoomID     int64
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalPrice int64
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingView joins a booking with the room and hotel it belongs to, for
// listing screens.
type BookingView struct {
	Booking
	RoomName  string
	HotelID   int64
	HotelName string
}

// Overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd).
// Half-open intervals: a checkout on the same day as a new check-in does
// not overlap, so back-to-back stays are permitted.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Nights returns the number of nights in [in, out). Callers must have
// verified in < out; for midnight-normalized dates the division is exact.
func Nights(in, out time.Time) int {
	return int(out.Sub(in).Hours() / 24)
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
