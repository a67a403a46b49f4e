package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicflow/clinic-api/internal/model"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// WriteAction renders the uniform mutation result. Field errors mean the
// request was malformed (400); a bare message rides whatever status the
// caller mapped from the underlying failure.
func WriteAction(c *gin.Context, status int, result *model.ActionResult) {
	if result.Errors != nil {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// WriteInvalid is the validation-failure shape: success false, per-field
// error lists, no top-level message.
func WriteInvalid(c *gin.Context, fieldErrors map[string][]string) {
	c.JSON(http.StatusBadRequest, model.ActionInvalid(fieldErrors))
}

// WriteFailure maps a service error onto an ActionResult with the HTTP status
// derived from its AppError code.
func WriteFailure(c *gin.Context, err error) {
	c.JSON(StatusOf(err), model.ActionFailed(err.Error()))
}

// StatusOf maps AppError codes to HTTP statuses, defaulting to 500.
func StatusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
