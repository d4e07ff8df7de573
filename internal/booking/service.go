package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/nekogravitycat/room-booking-backend/internal/logging"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
	"github.com/nekogravitycat/room-booking-backend/internal/user"
)

type CreateRequest struct {
	UserID      int64
	RoomID      int64
	StartTime   time.Time
	EndTime     time.Time
	Description *string
}

// UpdateRequest carries optional fields; nil means "leave unchanged".
type UpdateRequest struct {
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *Status
	Description *string
}

// UserLookup resolves users referenced by bookings.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// RoomLookup resolves rooms referenced by bookings.
type RoomLookup interface {
	GetByID(ctx context.Context, id int64) (*room.Room, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*Booking, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Booking, error)
	Cancel(ctx context.Context, id int64) (*Booking, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   Repository
	users  UserLookup
	rooms  RoomLookup
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(repo Repository, users UserLookup, rooms RoomLookup, clk clock.Clock, logger *slog.Logger) Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &service{
		repo:   repo,
		users:  users,
		rooms:  rooms,
		clock:  clk,
		logger: logging.Or(logger).With("service", "booking"),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Validate time range
	slot := NewInterval(req.StartTime, req.EndTime)
	if !slot.Valid() {
		return nil, ErrInvalidRange
	}

	// 2. Referenced user, then room, must exist
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetByID(ctx, req.RoomID); err != nil {
		return nil, err
	}

	// 3. Neither bound may lie before now; a bound equal to now is allowed
	now := s.clock.Now()
	if slot.Start.Before(now) || slot.End.Before(now) {
		return nil, ErrInPast
	}

	// 4. Check for overlaps
	if err := s.ensureSlotFree(ctx, req.RoomID, slot, 0); err != nil {
		return nil, err
	}

	// 5. Create booking
	b := &Booking{
		UserID:      req.UserID,
		RoomID:      req.RoomID,
		StartTime:   slot.Start,
		EndTime:     slot.End,
		Status:      StatusConfirmed,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking created",
		"booking_id", b.ID, "room_id", b.RoomID, "user_id", b.UserID,
		"start", b.StartTime, "end", b.EndTime)

	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) ListByRoom(ctx context.Context, roomID int64) ([]*Booking, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{RoomID: roomID})
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{UserID: userID})
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Booking, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if req.StartTime != nil && req.EndTime != nil && !NewInterval(*req.StartTime, *req.EndTime).Valid() {
		return nil, ErrInvalidRange
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Merge provided bounds over the stored ones. The past rule only guards creation.
	start, end := b.StartTime, b.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	slot := NewInterval(start, end)
	boundsChanged := req.StartTime != nil || req.EndTime != nil
	if boundsChanged && !slot.Valid() {
		return nil, ErrInvalidRange
	}

	status := b.Status
	if req.Status != nil {
		status = *req.Status
	}
	reactivated := !b.Status.Active() && status.Active()

	if boundsChanged || reactivated {
		if err := s.ensureSlotFree(ctx, b.RoomID, slot, b.ID); err != nil {
			return nil, err
		}
	}

	b.StartTime, b.EndTime = slot.Start, slot.End
	b.Status = status
	if req.Description != nil {
		b.Description = req.Description
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking updated",
		"booking_id", b.ID, "status", b.Status, "start", b.StartTime, "end", b.EndTime)

	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) Cancel(ctx context.Context, id int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	b.Status = StatusCancelled
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking cancelled", "booking_id", b.ID, "room_id", b.RoomID)
	return b, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "booking deleted", "booking_id", id)
	return nil
}

// ensureSlotFree returns ErrSlotTaken when an active booking of the room,
// other than excludeID, overlaps slot.
func (s *service) ensureSlotFree(ctx context.Context, roomID int64, slot Interval, excludeID int64) error {
	existing, err := s.findOverlapping(ctx, roomID, slot, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		s.logger.DebugContext(ctx, "slot conflict",
			"room_id", roomID, "conflicting_booking_id", existing.ID)
		return ErrSlotTaken
	}
	return nil
}

func (s *service) findOverlapping(ctx context.Context, roomID int64, slot Interval, excludeID int64) (*Booking, error) {
	candidates, err := s.repo.ListActiveByRoom(ctx, roomID, slot)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if c.ID == excludeID || !c.Status.Active() {
			continue
		}
		if Conflicts(c.Interval(), slot) {
			return c, nil
		}
	}
	return nil, nil
}
