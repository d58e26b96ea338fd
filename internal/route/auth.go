package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Auth(r *gin.RouterGroup, authController *controller.AuthController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/auth")
	{
		v1.POST("/register", authController.Register)
		v1.POST("/login", authController.Login)
		v1.POST("/jwt/access/verify", authController.VerifyJwtAccessToken)
		v1.POST("/jwt/refresh", authController.RefreshAccessToken)
		v1.GET("/me", middleware.AuthMiddleware, authController.Me)
	}
}
