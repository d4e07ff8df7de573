package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/room-booking-backend/internal/logging"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
)

// statusByKind is the fixed lookup from domain error kind to HTTP status.
var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:   http.StatusBadRequest,
	apperror.KindRange:        http.StatusBadRequest,
	apperror.KindTemporal:     http.StatusBadRequest,
	apperror.KindInvalidState: http.StatusBadRequest,
	apperror.KindNotFound:     http.StatusNotFound,
	apperror.KindConflict:     http.StatusConflict,
}

// ErrorBody is the payload nested under "error".
type ErrorBody struct {
	Message string `json:"message"`
}

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if code, ok := statusByKind[appErr.Kind]; ok {
			return code
		}
	}
	return http.StatusInternalServerError
}

// Error sends a JSON error response.
// AppErrors are mapped through statusByKind; anything else becomes a 500
// whose cause is logged but not exposed.
func Error(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "request failed", "error", err)
		c.JSON(code, ErrorResponse{Error: ErrorBody{Message: "Internal server error"}})
		return
	}
	c.JSON(code, ErrorResponse{Error: ErrorBody{Message: err.Error()}})
}
