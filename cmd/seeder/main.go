package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	server "staybook/internal/adapters/http_server"
	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

// Seeds a demo catalog: three accounts, one hotel, three rooms. Users
// upsert by email; hotels and rooms insert fresh rows each run.

func strp(s string) *string { return &s }

var seedUsers = []domain.User{
	{Email: "admin@example.com", FirstName: "Alexey", LastName: "Irlik", Role: domain.RoleAdmin},
	{Email: "owner@example.com", FirstName: "Ivan", LastName: "Hotelier", Role: domain.RoleOwner},
	{Email: "user@example.com", FirstName: "Maria", LastName: "Guest", Role: domain.RoleUser},
}

var seedRooms = []domain.Room{
	{
		Name:          "Standard",
		Description:   strp("Cozy room with a double bed, TV and minibar."),
		PricePerNight: 3500,
		Capacity:      2,
		Amenities:     strp("Wi-Fi, TV, Minibar, Air conditioning"),
		ImageURL:      strp("/static/img/rooms/standard.jpg"),
	},
	{
		Name:          "Deluxe",
		Description:   strp("Spacious room with a city view, lounge area and jacuzzi."),
		PricePerNight: 5500,
		Capacity:      2,
		Amenities:     strp("Wi-Fi, TV, Minibar, Air conditioning, Jacuzzi, City view"),
		ImageURL:      strp("/static/img/rooms/deluxe.jpg"),
	},
	{
		Name:          "Presidential Suite",
		Description:   strp("Two-room suite with a separate lounge, study and panoramic view."),
		PricePerNight: 12000,
		Capacity:      4,
		Amenities:     strp("Wi-Fi, 2 TVs, Minibar, Air conditioning, Jacuzzi, Sea view, Separate lounge"),
		ImageURL:      strp("/static/img/rooms/suite.jpg"),
	},
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.Workers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	users := make(map[string]domain.User, len(seedUsers))
	for _, u := range seedUsers {
		saved, err := repo.InsertUser(ctx, u)
		if err != nil {
			log.Fatal().Err(err).Str("email", u.Email).Msg("seed user failed")
		}
		users[u.Email] = saved
		log.Info().Str("email", saved.Email).Int64("id", saved.ID).Msg("user ok")
	}

	hotel, err := repo.InsertHotel(ctx, domain.Hotel{
		OwnerID:     users["owner@example.com"].ID,
		Name:        "Grand Plaza Hotel",
		Description: strp("Luxury hotel in the city centre with a sea view, spa and restaurant."),
		Address:     "1 Central Street",
		City:        "Moscow",
		Phone:       strp("+74951234567"),
		Email:       strp("info@grandplaza.example"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed hotel failed")
	}
	log.Info().Int64("id", hotel.ID).Str("name", hotel.Name).Msg("hotel ok")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, r := range seedRooms {
		r := r
		r.HotelID = hotel.ID

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(room domain.Room) {
			defer wg.Done()
			defer sem.Release(1)

			saved, err := repo.InsertRoom(ctx, room)
			if err != nil {
				log.Warn().Str("name", room.Name).Err(err).Msg("seed room failed")
				return
			}
			log.Info().Int64("id", saved.ID).Str("name", saved.Name).Msg("room ok")
		}(r)
	}

	wg.Wait()

	printTokens(cfg.JWTSecret, users)
	log.Info().Msg("seeding completed")
}

// printTokens emits a ready-to-use bearer token per seeded account so the
// API can be exercised without a separate login service.
func printTokens(secret string, users map[string]domain.User) {
	if secret == "" {
		log.Warn().Msg("JWT_SECRET is empty, skipping token output")
		return
	}
	auth := server.NewAuthenticator(secret)
	fmt.Println("==================================================")
	fmt.Println("SEEDED ACCOUNTS (tokens valid 24h):")
	for _, u := range seedUsers {
		saved := users[u.Email]
		tok, err := auth.Sign(domain.Actor{UserID: saved.ID, Role: saved.Role}, 24*time.Hour)
		if err != nil {
			log.Warn().Err(err).Str("email", saved.Email).Msg("token sign failed")
			continue
		}
		fmt.Printf("\n%s (%s):\n  %s\n", saved.Email, saved.Role, tok)
	}
	fmt.Println("==================================================")
}
