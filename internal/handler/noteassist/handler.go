package noteassist

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/service/noteassist"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type Handler struct {
	service  *noteassist.Service
	enabled  bool
	validate *validator.Validator
}

// NewHandler builds the note-assist endpoint. When the model credentials are
// absent the endpoint stays registered but answers 503.
func NewHandler(service *noteassist.Service, enabled bool, validate *validator.Validator) *Handler {
	return &Handler{service: service, enabled: enabled, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/note-assist", h.Suggest)
}

func (h *Handler) Suggest(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("note assist is not configured"))
		return
	}

	var req noteassist.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	resp, err := h.service.Suggest(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, noteassist.ErrNoSuggestions) {
			c.JSON(http.StatusUnprocessableEntity, handler.NewErrorResponse("the model produced no usable suggestions"))
			return
		}
		c.JSON(http.StatusBadGateway, handler.NewErrorResponse("note assist is temporarily unavailable"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}
