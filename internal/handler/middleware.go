package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/utils"
)

// AdminAuth verifies the two cookie tokens, rejects revoked ones, and puts
// the caller's identity and role on the request context.
func AdminAuth(codec *auth.TokenCodec, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := c.Cookie("jwt")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			return
		}
		roleToken, err := c.Cookie("role")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			return
		}

		userClaims, err := codec.Verify(identity)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		roleClaims, err := codec.Verify(roleToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		ctx := c.Request.Context()
		if utils.IsTokenBlacklisted(ctx, rdb, auth.ClaimString(userClaims, "jti")) ||
			utils.IsTokenBlacklisted(ctx, rdb, auth.ClaimString(roleClaims, "jti")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		c.Set("username", auth.ClaimString(userClaims, "username"))
		c.Set("role", auth.ClaimString(roleClaims, "role"))
		c.Next()
	}
}
