package authz

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextActorID   = "actor_id"
	ContextRole      = "role"
	ContextSuperuser = "superuser"
)

// ActorFrom rebuilds the Actor the auth middleware stored on the request.
// A zero Actor means the request was not authenticated.
func ActorFrom(c *gin.Context) Actor {
	id, err := uuid.Parse(c.GetString(ContextActorID))
	if err != nil {
		return Actor{}
	}
	return Actor{
		ID:        id,
		Role:      c.GetString(ContextRole),
		Superuser: c.GetBool(ContextSuperuser),
	}
}
