package jobapplication

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
	// submission is public: anonymous applicants are welcome, signed-in
	// callers get the application linked to their account
	public := r.Group("/applications")
	public.Use(middleware.RateLimitByIP(rate.Limit(1), 5), middleware.OptionalAuth())
	{
		public.POST("", handler.Create)
	}

	applications := r.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		applications.GET("", middleware.Require(enforcer, authz.ResourceJobApplication, authz.ActionRead), handler.GetAll)
		applications.GET("/:id", middleware.Require(enforcer, authz.ResourceJobApplication, authz.ActionRead), handler.GetById)
		applications.DELETE("/:id", middleware.Require(enforcer, authz.ResourceJobApplication, authz.ActionDelete), handler.Delete)
		applications.POST("/:id/approve", middleware.Require(enforcer, authz.ResourceJobApplication, authz.ActionApprove), middleware.Idempotency(rdb), handler.Approve)
		applications.POST("/:id/reject", middleware.Require(enforcer, authz.ResourceJobApplication, authz.ActionReject), middleware.Idempotency(rdb), handler.Reject)
	}
}
