package workhours

import (
	"github.com/Wael-BenAbid/vfRH/internal/authz"
	"github.com/Wael-BenAbid/vfRH/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
) {
	hours := r.Group("/work-hours")
	hours.Use(middleware.AuthMiddleware())
	{
		hours.POST("", middleware.Require(enforcer, authz.ResourceWorkHours, authz.ActionCreate), handler.Create)
		hours.GET("", middleware.Require(enforcer, authz.ResourceWorkHours, authz.ActionRead), handler.GetAll)
		hours.GET("/:id", middleware.Require(enforcer, authz.ResourceWorkHours, authz.ActionRead), handler.GetById)
		hours.PUT("/:id", middleware.Require(enforcer, authz.ResourceWorkHours, authz.ActionUpdate), handler.Update)
		hours.DELETE("/:id", middleware.Require(enforcer, authz.ResourceWorkHours, authz.ActionDelete), handler.Delete)
	}
}
