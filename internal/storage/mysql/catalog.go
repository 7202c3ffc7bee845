package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"staybook/internal/domain"
)

// -----------------------------------------------------------------------------
// CatalogRepository
// -----------------------------------------------------------------------------

func (r *Repo) InsertHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.OwnerID, h.Name, valStr(h.Description), h.Address, h.City, valStr(h.Phone), valStr(h.Email))
	if err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.getHotelRow(ctx, id)
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	if _, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, valStr(h.Description), h.Address, h.City, valStr(h.Phone), valStr(h.Email), h.ID); err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	return r.getHotelRow(ctx, h.ID)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	h, err := r.getHotelRow(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}

	rows, err := r.db.QueryContext(ctx, listHotelRoomsSQL, id)
	if err != nil {
		return domain.HotelDetail{}, mapErr(err)
	}
	defer rows.Close()

	hd := domain.HotelDetail{Hotel: h}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return domain.HotelDetail{}, err
		}
		hd.Rooms = append(hd.Rooms, rm)
	}
	return hd, rows.Err()
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	city := ""
	if q.City != nil {
		city = *q.City
	}
	rows, err := r.db.QueryContext(ctx, listHotelsSQL, city, "%"+city+"%", q.Limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) HotelHasBookings(ctx context.Context, hotelID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, hotelHasBookingsSQL, hotelID).Scan(&exists)
	return exists, mapErr(err)
}

func (r *Repo) InsertRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, rm.Name, valStr(rm.Description), rm.PricePerNight, rm.Capacity,
		valStr(rm.Amenities), valStr(rm.ImageURL))
	if err != nil {
		return domain.Room{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Room{}, err
	}
	return r.GetRoom(ctx, id)
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	if _, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.Name, valStr(rm.Description), rm.PricePerNight, rm.Capacity,
		valStr(rm.Amenities), valStr(rm.ImageURL), rm.ID); err != nil {
		return domain.Room{}, mapErr(err)
	}
	return r.GetRoom(ctx, rm.ID)
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteRoomSQL, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

func (r *Repo) RoomHasBookings(ctx context.Context, roomID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, roomHasBookingsSQL, roomID).Scan(&exists)
	return exists, mapErr(err)
}

func (r *Repo) InsertUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Email, u.FirstName, u.LastName, string(u.Role))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, id)
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

// GetUserByEmail is used by the seeder and the integration tests; it is not
// part of the catalog port.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n)
	return n, mapErr(err)
}

func (r *Repo) CountUsersSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countUsersSinceSQL, t.UTC()).Scan(&n)
	return n, mapErr(err)
}

func (r *Repo) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countUsersByRoleSQL, string(role)).Scan(&n)
	return n, mapErr(err)
}

func (r *Repo) CountHotels(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countHotelsSQL).Scan(&n)
	return n, mapErr(err)
}

// ---- scan helpers ----

func (r *Repo) getHotelRow(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var desc, phone, email sql.NullString
	if err := row.Scan(
		&h.ID, &h.OwnerID, &h.Name, &desc, &h.Address, &h.City, &phone, &email,
		&h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		return domain.Hotel{}, err
	}
	h.Description = scanStr(desc)
	h.Phone = scanStr(phone)
	h.Email = scanStr(email)
	return h, nil
}

func scanRoom(row rowScanner) (domain.Room, error) {
	var rm domain.Room
	var desc, amen, img sql.NullString
	if err := row.Scan(
		&rm.ID, &rm.HotelID, &rm.Name, &desc, &rm.PricePerNight, &rm.Capacity, &amen, &img,
		&rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return domain.Room{}, err
	}
	rm.Description = scanStr(desc)
	rm.Amenities = scanStr(amen)
	rm.ImageURL = scanStr(img)
	return rm, nil
}

func (r *Repo) scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
