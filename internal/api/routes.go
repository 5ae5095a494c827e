package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/nonce"
)

// SetupRoutes configures all API routes.
// Health and metrics routes are registered by the infrastructure gin builder.
func SetupRoutes(router *gin.Engine, h *Handler, jwtSecret string, searchLimiter *SubjectLimiter) {
	v1 := router.Group("/api/v1")

	v1.GET("/navigation/pinned", h.PublicPinned)

	admin := v1.Group("/pinned-nav")
	admin.Use(jwt.Middleware(jwtSecret))
	admin.GET("/nonces", h.Nonces)
	admin.GET("/items", h.Items)
	admin.POST("/search", RequireNonce(h.nonces, nonce.ActionSearch), searchLimiter.Middleware(), h.Search)
	admin.POST("/items", RequireNonce(h.nonces, nonce.ActionSave), h.Save)
	admin.POST("/lookup", RequireNonce(h.nonces, nonce.ActionLookup), h.Lookup)
}
