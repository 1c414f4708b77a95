package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/utils"
)

type AuthHandler struct {
	verifier auth.CredentialVerifier
	codec    *auth.TokenCodec
	rdb      *redis.Client
}

func NewAuthHandler(verifier auth.CredentialVerifier, codec *auth.TokenCodec, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{verifier: verifier, codec: codec, rdb: rdb}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}
	if err := utils.GetValidator().Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": strings.Join(utils.ParseErrors(err), " // ")})
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid Username or Password"})
		return
	}

	identityToken, err := h.codec.IssueIdentity(identity.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	roleToken, err := h.codec.IssueRole(identity.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	maxAge := int(h.codec.TTL().Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("jwt", identityToken, maxAge, "/", "", false, true)
	c.SetCookie("role", roleToken, maxAge, "/", "", false, true)

	log.Printf("[INFO] admin login: %s (%s)", identity.Username, identity.Role)
	c.JSON(http.StatusOK, gin.H{"success": true, "role": identity.Role, "message": "Login successful"})
}

// Logout revokes both tokens for whatever lifetime they have left and clears
// the cookies. A request with unreadable tokens still clears the cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	for _, name := range []string{"jwt", "role"} {
		token, err := c.Cookie(name)
		if err != nil {
			continue
		}
		claims, err := h.codec.Verify(token)
		if err != nil {
			continue
		}
		jti := auth.ClaimString(claims, "jti")
		if jti == "" {
			continue
		}
		ttl := h.codec.TTL()
		if exp, ok := claims["exp"].(float64); ok {
			ttl = time.Until(time.Unix(int64(exp), 0))
		}
		if ttl <= 0 {
			continue
		}
		if err := utils.BlacklistToken(ctx, h.rdb, jti, ttl); err != nil {
			log.Printf("[WARN] failed to blacklist token: %v", err)
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("jwt", "", -1, "/", "", false, true)
	c.SetCookie("role", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// Validate answers whether the caller's session is still good. It runs behind
// AdminAuth, so reaching it at all means the tokens verified.
func (h *AuthHandler) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "valid": true, "role": c.GetString("role")})
}
