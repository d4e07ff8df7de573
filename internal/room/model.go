package room

import (
	"strings"
	"time"

	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(apperror.KindNotFound, "Room not found")
	ErrNameAlreadyExists = apperror.New(apperror.KindConflict, "Room name already exists")
)

const (
	MsgNameRequired     = "Name is required"
	MsgNameEmpty        = "Name cannot be empty"
	MsgCapacityPositive = "Capacity must be a positive integer"
	MsgPricePositive    = "Price per hour must be positive"
)

// Room is a bookable space.
type Room struct {
	ID           int64
	Name         string
	Capacity     int
	PricePerHour *float64
	KeyFeatures  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing rooms.
type Filter struct {
	// Feature matches key features case-insensitively as a substring.
	Feature string
}

// featurePattern builds a LIKE pattern for Feature with wildcards escaped by '\'.
func featurePattern(feature string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(feature)) + "%"
}
