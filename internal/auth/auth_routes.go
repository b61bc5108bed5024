package auth

import (
	"github.com/Wael-BenAbid/vfRH/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.RefreshToken)
		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
