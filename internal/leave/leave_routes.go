package leave

import (
	"github.com/Wael-BenAbid/vfRH/internal/authz"
	"github.com/Wael-BenAbid/vfRH/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.Require(enforcer, authz.ResourceLeave, authz.ActionCreate), handler.Create)
		leaves.GET("", middleware.Require(enforcer, authz.ResourceLeave, authz.ActionRead), handler.GetAll)
		leaves.GET("/:id", middleware.Require(enforcer, authz.ResourceLeave, authz.ActionRead), handler.GetById)
		leaves.DELETE("/:id", middleware.Require(enforcer, authz.ResourceLeave, authz.ActionDelete), handler.Delete)
		leaves.POST("/:id/approve", middleware.Require(enforcer, authz.ResourceLeave, authz.ActionApprove), middleware.Idempotency(rdb), handler.Approve)
		leaves.POST("/:id/reject", middleware.Require(enforcer, authz.ResourceLeave, authz.ActionReject), middleware.Idempotency(rdb), handler.Reject)
	}
}
