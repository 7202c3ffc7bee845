package domain

import "errors"

// Business-rule rejections. All are recoverable, user-facing values; the
// caller renders them, it never retries on them.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDateRange  = errors.New("check-out must be after check-in")
	ErrInvalidGuestCount = errors.New("guest count must be at least 1")
	ErrRoomUnavailable   = errors.New("room not available for requested dates")
	ErrCapacityExceeded  = errors.New("party size exceeds room capacity")
	ErrInvalidTransition = errors.New("cannot confirm a cancelled booking")
	ErrForbidden         = errors.New("forbidden")
	ErrHasBookings       = errors.New("resource has bookings and cannot be deleted")
)

// ErrStorageContention marks transient storage-level failures (deadlock,
// lock wait timeout) that are safe to retry as a whole operation. Kept
// distinct from business rejections so callers can tell the two apart.
var ErrStorageContention = errors.New("storage contention, retry the operation")
