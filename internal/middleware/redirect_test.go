package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRedirectEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LegacyRedirect())
	r.GET("/analysis", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestLegacyPathsRedirect(t *testing.T) {
	r := newRedirectEngine()

	for _, path := range []string{"/financial", "/financial/summary", "/reports", "/reports/2024/03"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPermanentRedirect, w.Code, path)
		assert.Equal(t, "/analysis", w.Header().Get("Location"), path)
	}
}

func TestNonLegacyPathsPassThrough(t *testing.T) {
	r := newRedirectEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analysis", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
