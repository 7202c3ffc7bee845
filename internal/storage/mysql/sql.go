package mysql

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

// Serializes concurrent booking creation per room: every creator takes the
// parent row lock before checking for overlap.
const lockRoomSQL = `
SELECT id, price_per_night, capacity
FROM rooms
WHERE id = ?
FOR UPDATE
`

// Half-open interval overlap: [a1,a2) and [b1,b2) intersect iff
// a1 < b2 AND a2 > b1. Cancelled bookings never block.
const countOverlappingSQL = `
SELECT COUNT(*)
FROM bookings
WHERE room_id = ?
  AND status <> 'cancelled'
  AND check_in < ?
  AND check_out > ?
`

const selectOverlappingSQL = `
SELECT id, user_id, room_id, check_in, check_out, guests, total_price, status, created_at, updated_at
FROM bookings
WHERE room_id = ?
  AND status <> 'cancelled'
  AND check_in < ?
  AND check_out > ?
ORDER BY check_in
`

const insertBookingSQL = `
INSERT INTO bookings (user_id, room_id, check_in, check_out, guests, total_price, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `
SELECT id, user_id, room_id, check_in, check_out, guests, total_price, status, created_at, updated_at
FROM bookings
WHERE id = ?
`

// Callers take the row lock first and only write legal transitions; see
// Repo.UpdateBookingStatus.
const getBookingForUpdateSQL = `
SELECT id, user_id, room_id, check_in, check_out, guests, total_price, status, created_at, updated_at
FROM bookings
WHERE id = ?
FOR UPDATE
`

const updateBookingStatusSQL = `
UPDATE bookings
SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const listBookingsByUserSQL = `
SELECT b.id, b.user_id, b.room_id, b.check_in, b.check_out, b.guests, b.total_price, b.status,
       b.created_at, b.updated_at,
       r.name, h.id, h.name
FROM bookings b
JOIN rooms r  ON r.id = b.room_id
JOIN hotels h ON h.id = r.hotel_id
WHERE b.user_id = ?
ORDER BY b.created_at DESC, b.id DESC
`

const listBookingsByStatusSQL = `
SELECT b.id, b.user_id, b.room_id, b.check_in, b.check_out, b.guests, b.total_price, b.status,
       b.created_at, b.updated_at,
       r.name, h.id, h.name
FROM bookings b
JOIN rooms r  ON r.id = b.room_id
JOIN hotels h ON h.id = r.hotel_id
WHERE (? = '' OR b.status = ?)
ORDER BY b.created_at DESC, b.id DESC
LIMIT ?
`

const countBookingsByStatusSQL = `
SELECT status, COUNT(*)
FROM bookings
GROUP BY status
`

const countBookingsSinceSQL = `
SELECT COUNT(*)
FROM bookings
WHERE created_at >= ?
`

// -----------------------------------------------------------------------------
// HOTELS & ROOMS
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels (owner_id, name, description, address, city, phone, email)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, description = ?, address = ?, city = ?, phone = ?, email = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const getHotelSQL = `
SELECT id, owner_id, name, description, address, city, phone, email, created_at, updated_at
FROM hotels
WHERE id = ?
`

const listHotelRoomsSQL = `
SELECT id, hotel_id, name, description, price_per_night, capacity, amenities, image_url, created_at, updated_at
FROM rooms
WHERE hotel_id = ?
ORDER BY id
`

const listHotelsSQL = `
SELECT id, owner_id, name, description, address, city, phone, email, created_at, updated_at
FROM hotels
WHERE (? = '' OR city LIKE ?)
ORDER BY created_at DESC, id DESC
LIMIT ?
`

const hotelHasBookingsSQL = `
SELECT EXISTS (
  SELECT 1
  FROM bookings b
  JOIN rooms r ON r.id = b.room_id
  WHERE r.hotel_id = ?
)
`

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, name, description, price_per_night, capacity, amenities, image_url)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms
SET name = ?, description = ?, price_per_night = ?, capacity = ?, amenities = ?, image_url = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const getRoomSQL = `
SELECT id, hotel_id, name, description, price_per_night, capacity, amenities, image_url, created_at, updated_at
FROM rooms
WHERE id = ?
`

const roomHasBookingsSQL = `
SELECT EXISTS (SELECT 1 FROM bookings WHERE room_id = ?)
`

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

// LAST_INSERT_ID(id) keeps LastInsertId meaningful on the duplicate path.
const insertUserSQL = `
INSERT INTO users (email, first_name, last_name, role)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id         = LAST_INSERT_ID(id),
  first_name = VALUES(first_name),
  last_name  = VALUES(last_name),
  role       = VALUES(role)
`

const getUserSQL = `
SELECT id, email, first_name, last_name, role, created_at
FROM users
WHERE id = ?
`

const getUserByEmailSQL = `
SELECT id, email, first_name, last_name, role, created_at
FROM users
WHERE email = ?
`

const countUsersSQL = `SELECT COUNT(*) FROM users`

const countUsersSinceSQL = `SELECT COUNT(*) FROM users WHERE created_at >= ?`

const countUsersByRoleSQL = `SELECT COUNT(*) FROM users WHERE role = ?`

const countHotelsSQL = `SELECT COUNT(*) FROM hotels`
