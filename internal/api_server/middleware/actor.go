package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

const (
	// ActorIDHeader carries the authenticated caller's identifier.
	ActorIDHeader = "X-Actor-ID"

	// ActorRoleHeader carries the caller's role as asserted by the identity
	// provider sitting in front of this service.
	ActorRoleHeader = "X-Actor-Role"

	// ActorKey is the key used to store the actor in the context
	ActorKey = "actor"
)

// Actor middleware resolves the caller from the identity headers. Identity
// itself is established upstream; this service trusts the asserted role and
// enforces capabilities per operation. Requests without both headers, or with
// an unknown role, are rejected before reaching any handler.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ActorIDHeader)
		role := shared.Role(c.GetHeader(ActorRoleHeader))

		if id == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing " + ActorIDHeader + " or " + ActorRoleHeader + " header",
				},
			})
			return
		}
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Unknown role: " + string(role),
				},
			})
			return
		}

		c.Set(ActorKey, shared.Actor{ID: id, Role: role})
		c.Next()
	}
}

// GetActor retrieves the actor resolved by the Actor middleware. The zero
// actor is returned on routes that skip the middleware; its empty role holds
// no capabilities, so downstream checks still deny access.
func GetActor(c *gin.Context) shared.Actor {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(shared.Actor); ok {
			return actor
		}
	}
	return shared.Actor{}
}
