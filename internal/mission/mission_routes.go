package mission

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
	missions := r.Group("/missions")
	missions.Use(middleware.AuthMiddleware())
	{
		missions.POST("", middleware.Require(enforcer, authz.ResourceMission, authz.ActionCreate), handler.Create)
		missions.GET("", middleware.Require(enforcer, authz.ResourceMission, authz.ActionRead), handler.GetAll)
		missions.GET("/:id", middleware.Require(enforcer, authz.ResourceMission, authz.ActionRead), handler.GetById)
		missions.PUT("/:id", middleware.Require(enforcer, authz.ResourceMission, authz.ActionUpdate), handler.Update)
		missions.DELETE("/:id", middleware.Require(enforcer, authz.ResourceMission, authz.ActionDelete), handler.Delete)
		missions.POST("/:id/complete", middleware.Require(enforcer, authz.ResourceMission, authz.ActionComplete), middleware.Idempotency(rdb), handler.Complete)
	}
}
