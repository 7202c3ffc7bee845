package domain

import (
	"context"
	"time"
)

type BookingRepository interface {
	// Write paths
	// InsertBooking re-checks the overlap invariant under a per-room lock
	// inside its own transaction and returns ErrRoomUnavailable when a
	// concurrent writer got there first.
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	// UpdateBookingStatus enforces the state machine against the stored
	// status under a lock: writing the current status is a no-op success,
	// an illegal transition returns ErrInvalidTransition even when the
	// caller's earlier read saw a state that would have allowed it.
	UpdateBookingStatus(ctx context.Context, id int64, st Status) (Booking, error)

	// Read paths
	GetBooking(ctx context.Context, id int64) (Booking, error)
	IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
	FindOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]Booking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]BookingView, error)
	ListBookingsByStatus(ctx context.Context, st Status, limit int) ([]BookingView, error)
	CountBookingsByStatus(ctx context.Context) (map[Status]int64, error)
	CountBookingsSince(ctx context.Context, t time.Time) (int64, error)
}

type CatalogRepository interface {
	// Hotels
	InsertHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error
	GetHotel(ctx context.Context, id int64) (HotelDetail, error)
	ListHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
	HotelHasBookings(ctx context.Context, hotelID int64) (bool, error)

	// Rooms
	InsertRoom(ctx context.Context, r Room) (Room, error)
	UpdateRoom(ctx context.Context, r Room) (Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	RoomHasBookings(ctx context.Context, roomID int64) (bool, error)

	// Users
	InsertUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersSince(ctx context.Context, t time.Time) (int64, error)
	CountUsersByRole(ctx context.Context, role Role) (int64, error)
	CountHotels(ctx context.Context) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
