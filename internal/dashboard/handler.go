package dashboard

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"complaint-portal/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin handshakes are allowed; the cookie tokens are the gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated admins onto the realtime dashboard
// channel.
type Handler struct {
	analytics Analytics
	codec     *auth.TokenCodec
	timings   Timings
}

func NewHandler(analytics Analytics, codec *auth.TokenCodec) *Handler {
	return &Handler{analytics: analytics, codec: codec, timings: DefaultTimings()}
}

// Serve authenticates the handshake and hands the connection to a Client.
// Both cookie tokens must verify; either failing refuses the connection
// before any upgrade happens.
func (h *Handler) Serve(c *gin.Context) {
	identity, err := c.Cookie("jwt")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}
	roleToken, err := c.Cookie("role")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	userClaims, err := h.codec.Verify(identity)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	roleClaims, err := h.codec.Verify(roleToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	username := auth.ClaimString(userClaims, "username")
	role := auth.ClaimString(roleClaims, "role")

	// The scope is derived once here and bound to the connection. A role
	// change on the peer's side only takes effect on reconnect.
	scope, err := auth.ResolveScope(role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	log.Printf("[INFO] dashboard client connected: %s", username)
	client := newClient(conn, username, scope, h.analytics, h.timings)
	client.Run()
}
