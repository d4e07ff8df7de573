package user

import (
	"time"

	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "User not found")
	ErrEmailAlreadyUsed = apperror.New(apperror.KindConflict, "Email already in use")
	ErrInvalidEmail     = apperror.New(apperror.KindValidation, "Invalid email format")
	ErrNameRequired     = apperror.New(apperror.KindValidation, "Name is required")
	ErrNameEmpty        = apperror.New(apperror.KindValidation, "Name cannot be empty")
)

// User is a person who can book rooms.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
