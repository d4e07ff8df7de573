package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/room-booking-backend/internal/booking"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(s booking.Service) *Handler {
	return &Handler{service: s}
}

// List returns bookings ordered by start time, filtered by ?userId=&roomId=&status=.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, request.Translate(err, nil))
		return
	}
	userID, err := request.OptionalInt64Query(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	roomID, err := request.OptionalInt64Query(c, "roomId")
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.List(c.Request.Context(), booking.Filter{
		UserID: userID,
		RoomID: roomID,
		Status: booking.Status(req.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingListResponse(bookings))
}

// ListByUser serves GET /users/:id/bookings.
func (h *Handler) ListByUser(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.ListByUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingListResponse(bookings))
}

// ListByRoom serves GET /rooms/:id/bookings.
func (h *Handler) ListByRoom(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.ListByRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingListResponse(bookings))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := request.BindJSON(c, &req, bookingMessages); err != nil {
		response.Error(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:      req.UserID,
		RoomID:      req.RoomID,
		StartTime:   *req.StartTime,
		EndTime:     *req.EndTime,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req UpdateBookingRequest
	if err := request.BindJSON(c, &req, bookingMessages); err != nil {
		response.Error(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel marks a booking as cancelled, releasing its slot.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := request.BindID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
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
