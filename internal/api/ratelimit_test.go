package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/api"
	"github.com/stretchr/testify/assert"
)

func TestSubjectLimiter_AllowIsPerSubject(t *testing.T) {
	l := api.NewSubjectLimiter(1, 2)

	assert.True(t, l.Allow("alice"))
	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"))

	assert.True(t, l.Allow("bob"))
}

func TestSubjectLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/limited", api.NewSubjectLimiter(1, 1).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestSubjectLimiter_NilPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var l *api.SubjectLimiter
	router := gin.New()
	router.GET("/open", l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for range 3 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
