package middleware

import (
	"net/http"

	"github.com/Wael-BenAbid/vfRH/internal/authz"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// Require gates a route on the role policy grid. Superusers enforce as
// admin. Entity-level ownership checks stay in the services; this only
// answers "may this role touch this resource/action at all".
func Require(enforcer *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(authz.ContextRole)
		if c.GetBool(authz.ContextSuperuser) {
			role = authz.RoleAdmin
		}
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to perform this action",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
