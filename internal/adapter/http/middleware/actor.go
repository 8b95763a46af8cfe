package middleware

import (
	"net/http"
	"strings"

	"dealflow/internal/domain/entities"
	"dealflow/pkg"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "dealflow/actor"

// RequireActor extracts the acting user from the headers the auth
// collaborator sets upstream. The core trusts the identity but never the
// permission: role and ownership are re-checked by the use cases.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Actor-Id"))
		role, err := entities.ParseActorRole(c.GetHeader("X-Actor-Role"))
		if id == "" || err != nil {
			appErr := pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing or invalid actor identity", http.StatusUnauthorized)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}

		c.Set(actorContextKey, entities.Actor{ID: id, Role: role})
		c.Next()
	}
}

// ActorFrom returns the actor RequireActor stored. Only call it on routes
// behind that middleware.
func ActorFrom(c *gin.Context) entities.Actor {
	v, _ := c.Get(actorContextKey)
	actor, _ := v.(entities.Actor)
	return actor
}
