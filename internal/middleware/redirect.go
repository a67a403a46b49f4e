package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LegacyRedirect permanently redirects the retired financial and reports
// paths to the analysis page.
func LegacyRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/financial" || path == "/reports" ||
			strings.HasPrefix(path, "/financial/") || strings.HasPrefix(path, "/reports/") {
			c.Redirect(http.StatusPermanentRedirect, "/analysis")
			c.Abort()
			return
		}
		c.Next()
	}
}
