package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Me(r *gin.RouterGroup, ac *controller.ApplicationController, uc *controller.UserController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/me")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/applications", ac.GetMyApplications)
		v1.PATCH("/profile", uc.UpdateProfile)
		v1.PATCH("/password", uc.ChangePassword)
	}
}
