package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/service/auth"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type Handler struct {
	service  *auth.Service
	validate *validator.Validator
}

func NewHandler(service *auth.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/password-reset", h.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", h.ConfirmPasswordReset)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid email or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("login failed"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(token))
}

// RequestPasswordReset always reports success so the endpoint cannot be used
// to probe which emails have accounts.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req model.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		handler.WriteFailure(c, err)
		return
	}
	handler.WriteAction(c, http.StatusOK, model.ActionOK("if the email exists, a reset code was sent"))
}

func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req model.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	if err := h.service.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid or expired reset token"))
		return
	}
	handler.WriteAction(c, http.StatusOK, model.ActionOK("password updated"))
}
