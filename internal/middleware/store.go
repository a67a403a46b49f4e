package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/internal/model"
)

// RequireStore guards routes that need the database. When the store is
// disabled by configuration they answer 503 with a warned action result
// instead of the process having crashed at boot.
func RequireStore(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			log.Warn().
				Str("path", c.Request.URL.Path).
				Msg("store access attempted while disabled")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				model.ActionFailed("the data store is not configured"))
			return
		}
		c.Next()
	}
}
