package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
)

// InvalidDateMessage is reported for instants that are not RFC 3339.
const InvalidDateMessage = "Invalid ISO 8601 date format"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("integer", isInteger)
	}
}

// isInteger accepts numbers without a fractional part.
func isInteger(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// FieldMessages maps "<StructField>.<tag>" to the message reported for that violation,
// e.g. "Email.email": "Invalid email format".
type FieldMessages map[string]string

// BindJSON decodes the body into obj, runs binding validation and translates any
// failure into a KindValidation AppError. An empty body is validated as "{}".
func BindJSON(c *gin.Context, obj any, messages FieldMessages) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return nil
	}
	return Translate(err, messages)
}

// Translate converts binding and decoding errors into a validation AppError whose
// message lists every violation.
func Translate(err error, messages FieldMessages) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		violations := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			violations = append(violations, messageFor(fe, messages))
		}
		return apperror.Validation(violations...)
	}

	var parseErr *time.ParseError
	if errors.As(err, &parseErr) || strings.Contains(err.Error(), "Time.UnmarshalJSON") {
		return apperror.Validation(InvalidDateMessage)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperror.Validation(fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type))
	}

	return apperror.Wrap(err, apperror.KindValidation, "Invalid JSON body")
}

func messageFor(fe validator.FieldError, messages FieldMessages) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "notblank":
		return fe.Field() + " cannot be empty"
	case "integer":
		return fe.Field() + " must be an integer"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt", "min":
		return fe.Field() + " must be positive"
	default:
		return fe.Field() + " is invalid"
	}
}
