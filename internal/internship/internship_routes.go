package internship

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
	internships := r.Group("/internships")
	internships.Use(middleware.AuthMiddleware())
	{
		internships.POST("", middleware.Require(enforcer, authz.ResourceInternship, authz.ActionCreate), handler.Create)
		internships.GET("", middleware.Require(enforcer, authz.ResourceInternship, authz.ActionRead), handler.GetAll)
		internships.GET("/:id", middleware.Require(enforcer, authz.ResourceInternship, authz.ActionRead), handler.GetById)
		internships.PATCH("/:id/status", middleware.Require(enforcer, authz.ResourceInternship, authz.ActionStatus), handler.ChangeStatus)
		internships.DELETE("/:id", middleware.Require(enforcer, authz.ResourceInternship, authz.ActionDelete), handler.Delete)
	}
}
