package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"staybook/internal/app"
	"staybook/internal/domain"
)

func TestAdminStats_AggregatesAndCaches(t *testing.T) {
	bookings := newFakeBookings()
	catalog := newMemCatalog()
	cache := &fakeCache{store: map[string]any{}}

	ctx := context.Background()
	seed := []domain.Status{
		domain.StatusConfirmed, domain.StatusConfirmed, domain.StatusPending, domain.StatusCancelled,
	}
	for i, st := range seed {
		_, err := bookings.InsertBooking(ctx, domain.Booking{
			RoomID:   int64(i + 1), // distinct rooms so nothing overlaps
			UserID:   1,
			CheckIn:  date(2026, 6, 1),
			CheckOut: date(2026, 6, 3),
			Guests:   1,
			Status:   st,
		})
		require.NoError(t, err)
	}

	svc := app.NewAdminService(bookings, catalog, cache, time.Minute)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), st.TotalBookings)
	require.Equal(t, int64(2), st.ConfirmedBookings)
	require.Equal(t, int64(1), st.PendingBookings)
	require.Equal(t, int64(1), st.CancelledBookings)
	require.Equal(t, int64(3), st.TotalUsers)

	// add a booking behind the cache's back; stats must be served cached
	_, err = bookings.InsertBooking(ctx, domain.Booking{
		RoomID: 9, UserID: 1, CheckIn: date(2026, 7, 1), CheckOut: date(2026, 7, 2),
		Guests: 1, Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	st2, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), st2.TotalBookings)
}

func TestBookingMutationsEvictStats(t *testing.T) {
	bookings := newFakeBookings()
	catalog := &fakeCatalog{rooms: map[int64]domain.Room{
		1: {ID: 1, HotelID: 1, Name: "Standard", PricePerNight: 3500, Capacity: 2},
	}}
	cache := &fakeCache{store: map[string]any{}}

	ledger := app.NewLedger(bookings, catalog, cache)
	admin := app.NewAdminService(bookings, newMemCatalog(), cache, time.Minute)
	ctx := context.Background()

	_, err := admin.Stats(ctx)
	require.NoError(t, err)
	require.Contains(t, cache.store, "admin:stats")

	b, err := ledger.CreateBooking(ctx, app.BookingRequest{
		RoomID: 1, UserID: 1, CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
	})
	require.NoError(t, err)
	require.NotContains(t, cache.store, "admin:stats")

	st, err := admin.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), st.ConfirmedBookings)

	_, err = ledger.CancelBooking(ctx, b.ID, domain.Actor{UserID: 1, Role: domain.RoleUser})
	require.NoError(t, err)
	require.NotContains(t, cache.store, "admin:stats")
}

func TestAdminListBookings_StatusFilter(t *testing.T) {
	bookings := newFakeBookings()
	ctx := context.Background()

	for i, st := range []domain.Status{domain.StatusConfirmed, domain.StatusCancelled, domain.StatusConfirmed} {
		_, err := bookings.InsertBooking(ctx, domain.Booking{
			RoomID: int64(i + 1), UserID: 1,
			CheckIn: date(2026, 6, 1), CheckOut: date(2026, 6, 2), Guests: 1, Status: st,
		})
		require.NoError(t, err)
	}

	svc := app.NewAdminService(bookings, newMemCatalog(), nil, time.Minute)

	all, err := svc.ListBookings(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	confirmed, err := svc.ListBookings(ctx, domain.StatusConfirmed, 0)
	require.NoError(t, err)
	require.Len(t, confirmed, 2)
}
