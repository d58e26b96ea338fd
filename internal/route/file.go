package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Files(r *gin.RouterGroup, uc *controller.UploadController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/files")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.POST("", uc.StageAttachment)
		v1.GET("/:attachmentId", uc.DownloadAttachment)
	}
}
