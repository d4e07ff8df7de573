package booking

import (
	"time"

	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
	"github.com/nekogravitycat/room-booking-backend/internal/user"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "Booking not found")
	ErrInvalidRange     = apperror.New(apperror.KindRange, "End time must be after start time")
	ErrInPast           = apperror.New(apperror.KindTemporal, "Cannot create bookings in the past")
	ErrSlotTaken        = apperror.New(apperror.KindConflict, "Room is already booked for this time slot")
	ErrAlreadyCancelled = apperror.New(apperror.KindInvalidState, "Booking is already cancelled")
	ErrInvalidStatus    = apperror.New(apperror.KindValidation, "Status must be one of: confirmed, cancelled, completed")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether a booking with this status occupies its slot.
func (s Status) Active() bool {
	return s != StatusCancelled
}

type Booking struct {
	ID          int64
	UserID      int64
	RoomID      int64
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined on reads; nil for rows returned by ListActiveByRoom.
	User *user.User
	Room *room.Room
}

// Interval returns the half-open time span the booking occupies.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// Filter defines parameters for listing bookings. Zero values mean "any".
type Filter struct {
	UserID int64
	RoomID int64
	Status Status
}
