package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Announcements(r *gin.RouterGroup, ac *controller.AnnouncementController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/announcements")
	{
		v1.GET("", ac.ListAnnouncements)
		v1.GET("/:announcementId", ac.GetAnnouncement)
	}

	admin := r.Group("/v1/admin/announcements")
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	{
		admin.POST("", ac.CreateAnnouncement)
		admin.PATCH("/:announcementId", ac.UpdateAnnouncement)
		admin.DELETE("/:announcementId", ac.DeleteAnnouncement)
	}
}
