package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "staybook/internal/adapters/redis"
	"staybook/internal/domain"
)

func newCache(t *testing.T) *redisad.Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	return redisad.New(srv.Addr(), "", 0)
}

func TestCache_RoundTrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	in := domain.HotelDetail{
		Hotel: domain.Hotel{ID: 1, Name: "Grand Plaza Hotel", City: "Moscow"},
		Rooms: []domain.Room{{ID: 2, HotelID: 1, Name: "Standard", PricePerNight: 3500, Capacity: 2}},
	}
	if err := c.Set(ctx, "hotel:1", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out domain.HotelDetail
	ok, err := c.Get(ctx, "hotel:1", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit")
	}
	if out.Hotel.Name != "Grand Plaza Hotel" || len(out.Rooms) != 1 || out.Rooms[0].PricePerNight != 3500 {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := newCache(t)

	var out domain.HotelDetail
	ok, err := c.Get(context.Background(), "hotel:404", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestCache_DelAndTTL(t *testing.T) {
	srv := miniredis.RunT(t)
	c := redisad.New(srv.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "admin:stats", map[string]int{"total": 3}, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Del(ctx, "admin:stats"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	var out map[string]int
	if ok, _ := c.Get(ctx, "admin:stats", &out); ok {
		t.Fatalf("expected key gone after Del")
	}

	// TTL expiry
	if err := c.Set(ctx, "hotel:9", map[string]int{"id": 9}, 30); err != nil {
		t.Fatalf("Set: %v", err)
	}
	srv.FastForward(31 * time.Second)
	if ok, _ := c.Get(ctx, "hotel:9", &out); ok {
		t.Fatalf("expected key expired")
	}
}
