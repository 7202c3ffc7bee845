package app

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/domain"
)

// CatalogService answers hotel/room reads (cached) and performs owner CRUD.
// Booking availability is deliberately not cached here; only catalog pages
// and their invalidation live in redis.
type CatalogService struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(r domain.CatalogRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelCacheKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

func (s *CatalogService) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := hotelCacheKey(id)
	var hd domain.HotelDetail
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &hd); ok {
			return hd, nil
		}
	}
	hd, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, hd, int(s.cacheTTL.Seconds()))
	}
	return hd, nil
}

func (s *CatalogService) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	return s.repo.ListHotels(ctx, q)
}

func (s *CatalogService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

// CreateHotel requires the hotel-owner role; admins may create on behalf
// of anyone.
func (s *CatalogService) CreateHotel(ctx context.Context, actor domain.Actor, h domain.Hotel) (domain.Hotel, error) {
	if actor.Role != domain.RoleOwner && !actor.IsAdmin() {
		return domain.Hotel{}, domain.ErrForbidden
	}
	if h.OwnerID == 0 {
		h.OwnerID = actor.UserID
	}
	return s.repo.InsertHotel(ctx, h)
}

func (s *CatalogService) UpdateHotel(ctx context.Context, actor domain.Actor, h domain.Hotel) (domain.Hotel, error) {
	existing, err := s.repo.GetHotel(ctx, h.ID)
	if err != nil {
		return domain.Hotel{}, err
	}
	if !actor.CanManage(existing.Hotel.OwnerID) {
		return domain.Hotel{}, domain.ErrForbidden
	}
	h.OwnerID = existing.Hotel.OwnerID
	updated, err := s.repo.UpdateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidateHotel(ctx, h.ID)
	return updated, nil
}

// DeleteHotel refuses to delete a hotel that has any booking on any of its
// rooms; rooms themselves cascade at the DB level.
func (s *CatalogService) DeleteHotel(ctx context.Context, actor domain.Actor, id int64) error {
	existing, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(existing.Hotel.OwnerID) {
		return domain.ErrForbidden
	}
	booked, err := s.repo.HotelHasBookings(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return domain.ErrHasBookings
	}
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidateHotel(ctx, id)
	return nil
}

func (s *CatalogService) CreateRoom(ctx context.Context, actor domain.Actor, r domain.Room) (domain.Room, error) {
	hotel, err := s.repo.GetHotel(ctx, r.HotelID)
	if err != nil {
		return domain.Room{}, err
	}
	if !actor.CanManage(hotel.Hotel.OwnerID) {
		return domain.Room{}, domain.ErrForbidden
	}
	created, err := s.repo.InsertRoom(ctx, r)
	if err != nil {
		return domain.Room{}, err
	}
	s.invalidateHotel(ctx, r.HotelID)
	return created, nil
}

func (s *CatalogService) UpdateRoom(ctx context.Context, actor domain.Actor, r domain.Room) (domain.Room, error) {
	existing, err := s.repo.GetRoom(ctx, r.ID)
	if err != nil {
		return domain.Room{}, err
	}
	hotel, err := s.repo.GetHotel(ctx, existing.HotelID)
	if err != nil {
		return domain.Room{}, err
	}
	if !actor.CanManage(hotel.Hotel.OwnerID) {
		return domain.Room{}, domain.ErrForbidden
	}
	r.HotelID = existing.HotelID
	updated, err := s.repo.UpdateRoom(ctx, r)
	if err != nil {
		return domain.Room{}, err
	}
	s.invalidateHotel(ctx, existing.HotelID)
	return updated, nil
}

func (s *CatalogService) DeleteRoom(ctx context.Context, actor domain.Actor, id int64) error {
	existing, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	hotel, err := s.repo.GetHotel(ctx, existing.HotelID)
	if err != nil {
		return err
	}
	if !actor.CanManage(hotel.Hotel.OwnerID) {
		return domain.ErrForbidden
	}
	booked, err := s.repo.RoomHasBookings(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return domain.ErrHasBookings
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidateHotel(ctx, existing.HotelID)
	return nil
}

func (s *CatalogService) invalidateHotel(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelCacheKey(id))
}
