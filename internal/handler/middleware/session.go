package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"vehicle-rental/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxReservationIDKey = "reservation_id"

// SessionMiddleware guards steps 1-3 and the read endpoints with the
// anonymous draft token issued at step 0. The token binds the caller to one
// reservation id; no customer account is involved.
type SessionMiddleware struct {
	tokens *token.Service
}

func NewSessionMiddleware(tokens *token.Service) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

func (m *SessionMiddleware) RequireDraftToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			raw = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Draft token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateDraftToken(raw)
		if err != nil {
			slog.Warn("draft token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired draft token",
			})
			c.Abort()
			return
		}

		// The token's reservation must match the one addressed by the route.
		if idStr := c.Param("id"); idStr != "" {
			id, parseErr := uuid.Parse(idStr)
			if parseErr != nil || id != claims.ReservationID {
				c.JSON(http.StatusForbidden, gin.H{
					"error": "Token does not grant access to this reservation",
				})
				c.Abort()
				return
			}
		}

		c.Set(ctxReservationIDKey, claims.ReservationID)
		c.Next()
	}
}

func GetReservationID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxReservationIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
