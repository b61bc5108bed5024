package identity

import (
	"github.com/Wael-BenAbid/vfRH/internal/authz"
	"github.com/Wael-BenAbid/vfRH/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
) {
	// public onboarding endpoints
	public := r.Group("")
	public.Use(middleware.RateLimitByIP(rate.Limit(1), 5))
	{
		public.POST("/auth/signup", handler.Signup)
		public.POST("/users/request-access", handler.RequestAccess)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.Require(enforcer, authz.ResourceUser, authz.ActionRead), handler.GetAll)
		users.GET("/options", middleware.Require(enforcer, authz.ResourceUser, authz.ActionRead), handler.GetOptions)
		users.GET("/:id", middleware.Require(enforcer, authz.ResourceUser, authz.ActionRead), handler.GetById)
		users.PUT("/:id", middleware.Require(enforcer, authz.ResourceUser, authz.ActionUpdate), handler.Update)
		users.DELETE("/:id", middleware.Require(enforcer, authz.ResourceUser, authz.ActionDelete), handler.Delete)
		users.POST("/:id/approve", middleware.Require(enforcer, authz.ResourceUser, authz.ActionApprove), middleware.Idempotency(rdb), handler.Approve)
		users.POST("/:id/reject", middleware.Require(enforcer, authz.ResourceUser, authz.ActionReject), middleware.Idempotency(rdb), handler.Reject)
	}
}
