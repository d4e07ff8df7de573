package request

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
)

// ErrInvalidID is returned when a path ID is not a positive integer.
var ErrInvalidID = apperror.New(apperror.KindValidation, "ID must be a number")

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,number"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	id, err := strconv.ParseInt(r.ID, 10, 64)
	if err != nil || id < 1 {
		return ErrInvalidID
	}
	return nil
}

// Int64 returns the parsed ID. Call Validate first.
func (r *ByIDRequest) Int64() int64 {
	id, _ := strconv.ParseInt(r.ID, 10, 64)
	return id
}

// BindID binds and validates the ":id" path parameter.
func BindID(c *gin.Context) (int64, error) {
	var req ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		return 0, ErrInvalidID
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}
	return req.Int64(), nil
}

// OptionalInt64Query parses an optional positive integer query parameter.
// Missing values yield 0.
func OptionalInt64Query(c *gin.Context, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return 0, apperror.New(apperror.KindValidation, key+" must be a positive integer")
	}
	return v, nil
}
