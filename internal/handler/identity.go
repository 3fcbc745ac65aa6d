package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key the identity middleware fills in.
const ContextUserID = "userID"

// identityHeader is set by the auth layer in front of this service after it
// has verified the caller's token.
const identityHeader = "X-User-ID"

// RequireIdentity rejects requests that carry no verified user identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(identityHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing user identity",
				"code":  "validation_error",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}
