package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	valid, err := jwt.Issue(testSecret, "editor", []string{"edit_theme_options"}, time.Hour)
	require.NoError(t, err)
	expired, err := jwt.Issue(testSecret, "editor", nil, -time.Minute)
	require.NoError(t, err)
	foreign, err := jwt.Issue("another-secret", "editor", nil, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "valid token", header: "Bearer " + valid, wantCode: http.StatusOK},
		{name: "missing header", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, wantCode: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, wantCode: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(jwt.Middleware(testSecret))

			var claims *jwt.Claims
			router.GET("/admin", func(c *gin.Context) {
				claims, _ = jwt.GetClaims(c)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				require.NotNil(t, claims)
				assert.Equal(t, "editor", claims.Subject)
				assert.Equal(t, []string{"edit_theme_options"}, claims.Capabilities)
			}
		})
	}
}
