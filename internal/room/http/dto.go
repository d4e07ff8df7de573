package http

import (
	"time"

	"github.com/nekogravitycat/room-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
)

// ListRoomsRequest defines query parameters for listing rooms.
type ListRoomsRequest struct {
	Feature string `form:"feature"`
}

// RoomResponse is the shape of room data returned in API responses.
type RoomResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	PricePerHour *float64  `json:"pricePerHour"`
	KeyFeatures  *string   `json:"keyFeatures"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewRoomResponse(r *room.Room) RoomResponse {
	return RoomResponse{
		ID:           r.ID,
		Name:         r.Name,
		Capacity:     r.Capacity,
		PricePerHour: r.PricePerHour,
		KeyFeatures:  r.KeyFeatures,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CreateRoomRequest defines the payload for POST /rooms.
// Capacity is decoded as a number so fractional values get the integer message.
type CreateRoomRequest struct {
	Name         string   `json:"name" binding:"required,notblank"`
	Capacity     *float64 `json:"capacity" binding:"required,gt=0,integer,lte=2147483647"`
	PricePerHour *float64 `json:"pricePerHour" binding:"omitempty,gt=0"`
	KeyFeatures  *string  `json:"keyFeatures"`
}

// UpdateRoomRequest defines fields allowed to be updated via PUT /rooms/:id.
type UpdateRoomRequest struct {
	Name         *string  `json:"name" binding:"omitempty,notblank"`
	Capacity     *float64 `json:"capacity" binding:"omitempty,gt=0,integer,lte=2147483647"`
	PricePerHour *float64 `json:"pricePerHour" binding:"omitempty,gt=0"`
	KeyFeatures  *string  `json:"keyFeatures"`
}

var capacityMessages = request.FieldMessages{
	"Capacity.required": room.MsgCapacityPositive,
	"Capacity.gt":       room.MsgCapacityPositive,
	"Capacity.integer":  room.MsgCapacityPositive,
	"Capacity.lte":      room.MsgCapacityPositive,
	"PricePerHour.gt":   room.MsgPricePositive,
}

var createRoomMessages = withName(room.MsgNameRequired)

var updateRoomMessages = withName(room.MsgNameEmpty)

func withName(blank string) request.FieldMessages {
	m := request.FieldMessages{"Name.required": room.MsgNameRequired, "Name.notblank": blank}
	for k, v := range capacityMessages {
		m[k] = v
	}
	return m
}

func intPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
