// Package seed loads a small set of sample rooms, a user and a booking.
// Running it again leaves existing records untouched.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nekogravitycat/room-booking-backend/internal/booking"
	"github.com/nekogravitycat/room-booking-backend/internal/logging"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
	"github.com/nekogravitycat/room-booking-backend/internal/user"
)

var sampleRooms = []room.CreateRequest{
	{Name: "Conference Room A", Capacity: 20},
	{Name: "Music room", Capacity: 10},
	{Name: "Movie room", Capacity: 75},
}

var sampleUser = user.CreateRequest{Email: "otto@thisproduct.com", Name: "Otto"}

var (
	sampleStart = time.Date(2026, 12, 2, 10, 0, 0, 0, time.UTC)
	sampleEnd   = time.Date(2026, 12, 2, 12, 0, 0, 0, time.UTC)
)

const sampleDescription = "Team meeting"

// Result lists what the seed run ensured exists.
type Result struct {
	Rooms   []*room.Room
	User    *user.User
	Booking *booking.Booking // nil when the sample slot is taken or already past
}

// Run seeds through the service layer so every domain rule applies.
func Run(ctx context.Context, users user.Service, rooms room.Service, bookings booking.Service, logger *slog.Logger) (*Result, error) {
	logger = logging.Or(logger)
	res := &Result{}

	for _, req := range sampleRooms {
		r, err := ensureRoom(ctx, rooms, req)
		if err != nil {
			return nil, err
		}
		res.Rooms = append(res.Rooms, r)
	}

	u, err := ensureUser(ctx, users, sampleUser)
	if err != nil {
		return nil, err
	}
	res.User = u

	desc := sampleDescription
	b, err := bookings.Create(ctx, booking.CreateRequest{
		UserID:      u.ID,
		RoomID:      res.Rooms[0].ID,
		StartTime:   sampleStart,
		EndTime:     sampleEnd,
		Description: &desc,
	})
	switch {
	case err == nil:
		res.Booking = b
	case errors.Is(err, booking.ErrSlotTaken), errors.Is(err, booking.ErrInPast):
		logger.InfoContext(ctx, "sample booking skipped", "reason", err.Error())
	default:
		return nil, fmt.Errorf("seed booking: %w", err)
	}

	logger.InfoContext(ctx, "seed complete", "rooms", len(res.Rooms), "user_id", u.ID, "booking_created", res.Booking != nil)
	return res, nil
}

func ensureRoom(ctx context.Context, rooms room.Service, req room.CreateRequest) (*room.Room, error) {
	r, err := rooms.Create(ctx, req)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, room.ErrNameAlreadyExists) {
		return nil, fmt.Errorf("seed room %q: %w", req.Name, err)
	}

	all, err := rooms.List(ctx, room.Filter{})
	if err != nil {
		return nil, fmt.Errorf("seed room %q: %w", req.Name, err)
	}
	for _, existing := range all {
		if existing.Name == req.Name {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("seed room %q: reported as existing but not listed", req.Name)
}

func ensureUser(ctx context.Context, users user.Service, req user.CreateRequest) (*user.User, error) {
	u, err := users.Create(ctx, req)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrEmailAlreadyUsed) {
		return nil, fmt.Errorf("seed user %q: %w", req.Email, err)
	}

	all, err := users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed user %q: %w", req.Email, err)
	}
	for _, existing := range all {
		if existing.Email == req.Email {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("seed user %q: reported as existing but not listed", req.Email)
}
