package app

import (
	"context"
	"time"

	"staybook/internal/domain"
)

const statsCacheKey = "admin:stats"

// DashboardStats is the admin dashboard read model.
type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalHotels       int64 `json:"total_hotels"`
	TotalBookings     int64 `json:"total_bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
	RecentUsers       int64 `json:"recent_users"`
	RecentBookings    int64 `json:"recent_bookings"`
	HotelOwners       int64 `json:"hotel_owners"`
}

// AdminService aggregates counts for the dashboard and lists bookings for
// the admin screen. Stats are cached briefly; booking mutations evict them.
type AdminService struct {
	bookings domain.BookingRepository
	catalog  domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewAdminService(b domain.BookingRepository, c domain.CatalogRepository, cache domain.Cache, ttl time.Duration) *AdminService {
	return &AdminService{bookings: b, catalog: c, cache: cache, cacheTTL: ttl, now: time.Now}
}

func (s *AdminService) Stats(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, statsCacheKey, &st); ok {
			return st, nil
		}
	}

	var err error
	if st.TotalUsers, err = s.catalog.CountUsers(ctx); err != nil {
		return DashboardStats{}, err
	}
	if st.TotalHotels, err = s.catalog.CountHotels(ctx); err != nil {
		return DashboardStats{}, err
	}
	byStatus, err := s.bookings.CountBookingsByStatus(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	st.PendingBookings = byStatus[domain.StatusPending]
	st.ConfirmedBookings = byStatus[domain.StatusConfirmed]
	st.CancelledBookings = byStatus[domain.StatusCancelled]
	st.TotalBookings = st.PendingBookings + st.ConfirmedBookings + st.CancelledBookings

	weekAgo := s.now().UTC().AddDate(0, 0, -7)
	if st.RecentUsers, err = s.catalog.CountUsersSince(ctx, weekAgo); err != nil {
		return DashboardStats{}, err
	}
	if st.RecentBookings, err = s.bookings.CountBookingsSince(ctx, weekAgo); err != nil {
		return DashboardStats{}, err
	}
	if st.HotelOwners, err = s.catalog.CountUsersByRole(ctx, domain.RoleOwner); err != nil {
		return DashboardStats{}, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, statsCacheKey, st, int(s.cacheTTL.Seconds()))
	}
	return st, nil
}

// ListBookings returns bookings for the admin screen, optionally filtered
// by status, newest first.
func (s *AdminService) ListBookings(ctx context.Context, status domain.Status, limit int) ([]domain.BookingView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.bookings.ListBookingsByStatus(ctx, status, limit)
}
