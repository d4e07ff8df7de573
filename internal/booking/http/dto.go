package http

import (
	"time"

	"github.com/nekogravitycat/room-booking-backend/internal/booking"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/request"
	roomHttp "github.com/nekogravitycat/room-booking-backend/internal/room/http"
	userHttp "github.com/nekogravitycat/room-booking-backend/internal/user/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
// userId and roomId are parsed separately so malformed ids get a clear message.
type ListBookingsRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
}

type BookingResponse struct {
	ID          int64                  `json:"id"`
	UserID      int64                  `json:"userId"`
	RoomID      int64                  `json:"roomId"`
	StartTime   time.Time              `json:"startTime"`
	EndTime     time.Time              `json:"endTime"`
	Status      string                 `json:"status"`
	Description *string                `json:"description"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	User        *userHttp.UserResponse `json:"user,omitempty"`
	Room        *roomHttp.RoomResponse `json:"room,omitempty"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		RoomID:      b.RoomID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.User != nil {
		u := userHttp.NewUserResponse(b.User)
		resp.User = &u
	}
	if b.Room != nil {
		r := roomHttp.NewRoomResponse(b.Room)
		resp.Room = &r
	}
	return resp
}

func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, NewBookingResponse(b))
	}
	return items
}

var bookingMessages = request.FieldMessages{
	"UserID.required":    "User ID must be a positive integer",
	"UserID.gt":          "User ID must be a positive integer",
	"RoomID.required":    "Room ID must be a positive integer",
	"RoomID.gt":          "Room ID must be a positive integer",
	"StartTime.required": "Start time is required",
	"EndTime.required":   "End time is required",
	"Description.max":    "Description must be at most 500 characters",
}

type CreateBookingRequest struct {
	UserID      int64      `json:"userId" binding:"required,gt=0"`
	RoomID      int64      `json:"roomId" binding:"required,gt=0"`
	StartTime   *time.Time `json:"startTime" binding:"required"`
	EndTime     *time.Time `json:"endTime" binding:"required"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
}

// Validate performs custom validation for CreateBookingRequest.
func (r *CreateBookingRequest) Validate() error {
	if !r.EndTime.After(*r.StartTime) {
		return booking.ErrInvalidRange
	}
	return nil
}

type UpdateBookingRequest struct {
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Status      *string    `json:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
}

// Validate performs custom validation for UpdateBookingRequest.
func (r *UpdateBookingRequest) Validate() error {
	if r.StartTime != nil && r.EndTime != nil && !r.EndTime.After(*r.StartTime) {
		return booking.ErrInvalidRange
	}
	return nil
}

func (r *UpdateBookingRequest) toDomain() booking.UpdateRequest {
	req := booking.UpdateRequest{
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
	}
	if r.Status != nil {
		st := booking.Status(*r.Status)
		req.Status = &st
	}
	return req
}
