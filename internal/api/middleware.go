package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/nonce"
)

// NonceHeader carries the anti-forgery token for the requested action.
const NonceHeader = "X-CSRF-Token"

const msgUnauthorized = "Unauthorized"

// RequireNonce rejects the request unless it carries a valid token for action.
// It must run after jwt.Middleware, whose subject the token is bound to.
func RequireNonce(issuer *nonce.Issuer, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if !issuer.Verify(p.Subject, action, c.GetHeader(NonceHeader)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   msgUnauthorized,
			})
			return
		}
		c.Next()
	}
}

// principal builds the caller from the JWT claims, or an anonymous principal.
func principal(c *gin.Context) curation.Principal {
	claims, ok := jwt.GetClaims(c)
	if !ok {
		return curation.Principal{}
	}
	return curation.Principal{Subject: claims.Subject, Capabilities: claims.Capabilities}
}
