package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "hotel_owner"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      Role
	CreatedAt time.Time
}

type Hotel struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description *string
	Address     string
	City        string
	Phone       *string
	Email       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Room struct {
	ID            int64
	HotelID       int64
	Name          string
	Description   *string
	PricePerNight int64 // integer currency units
	Capacity      int
	Amenities     *string
	ImageURL      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HotelDetail is the read model for a single hotel page: the hotel plus
// all of its rooms.
type HotelDetail struct {
	Hotel Hotel
	Rooms []Room
}

type HotelsQuery struct {
	City  *string
	Limit int
}

// Actor is the identity a request acts under. The ledger does not encode
// role policy; it only asks whether the actor may touch a given resource.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanManage reports whether the actor owns the resource or holds
// administrative authority over it.
func (a Actor) CanManage(ownerID int64) bool {
	return a.UserID == ownerID || a.Role == RoleAdmin
}
