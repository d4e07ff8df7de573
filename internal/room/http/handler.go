package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
)

type RoomHandler struct {
	service room.Service
}

func NewHandler(s room.Service) *RoomHandler {
	return &RoomHandler{service: s}
}

// List returns rooms ordered by name, optionally filtered by ?feature=.
func (h *RoomHandler) List(c *gin.Context) {
	var req ListRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, request.Translate(err, nil))
		return
	}

	rooms, err := h.service.List(c.Request.Context(), room.Filter{Feature: req.Feature})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, NewRoomResponse(r))
	}
	c.JSON(http.StatusOK, items)
}

func (h *RoomHandler) Get(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRoomResponse(r))
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := request.BindJSON(c, &req, createRoomMessages); err != nil {
		response.Error(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), room.CreateRequest{
		Name:         req.Name,
		Capacity:     int(*req.Capacity),
		PricePerHour: req.PricePerHour,
		KeyFeatures:  req.KeyFeatures,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewRoomResponse(r))
}

func (h *RoomHandler) Update(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req UpdateRoomRequest
	if err := request.BindJSON(c, &req, updateRoomMessages); err != nil {
		response.Error(c, err)
		return
	}

	r, err := h.service.Update(c.Request.Context(), id, room.UpdateRequest{
		Name:         req.Name,
		Capacity:     intPtr(req.Capacity),
		PricePerHour: req.PricePerHour,
		KeyFeatures:  req.KeyFeatures,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRoomResponse(r))
}

// Delete removes a room together with its bookings.
func (h *RoomHandler) Delete(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
