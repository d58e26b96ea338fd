package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Applications(r *gin.RouterGroup, ac *controller.ApplicationController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/applications")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.POST("", ac.SaveApplication)
		v1.GET("/check/:batchId", ac.CheckApplication)
		v1.GET("/:applicationId", ac.GetApplicationDetail)
	}

	admin := r.Group("/v1/admin/applications")
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	{
		admin.GET("", ac.ListApplications)
		admin.GET("/stats", ac.GetStats)
		admin.GET("/student-stats", ac.GetStudentStats)
		admin.POST("/:applicationId/review", ac.ReviewApplication)
		admin.DELETE("/:applicationId", ac.DeleteApplication)
	}
}
