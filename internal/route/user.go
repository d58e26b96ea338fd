package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Users(r *gin.RouterGroup, uc *controller.UserController, middleware *middleware.Middleware) {
	admin := r.Group("/v1/admin/users")
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	{
		admin.GET("", uc.ListUsers)
		admin.POST("", uc.CreateUser)
		admin.PATCH("/:userId", uc.UpdateUser)
		admin.PATCH("/:userId/password", uc.ResetPassword)
		admin.DELETE("/:userId", uc.DeleteUser)
	}
}
