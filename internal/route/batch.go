package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Batches(r *gin.RouterGroup, bc *controller.BatchController, rc *controller.RankingController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/batches")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", bc.ListOpenBatches)
		v1.GET("/:batchId", bc.GetBatch)
		v1.GET("/:batchId/ranking", rc.GetBatchRanking)
	}

	admin := r.Group("/v1/admin/batches")
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	{
		admin.GET("", bc.ListBatches)
		admin.POST("", bc.CreateBatch)
		admin.PATCH("/:batchId", bc.UpdateBatch)
		admin.DELETE("/:batchId", bc.DeleteBatch)
		admin.GET("/:batchId/ranking/export", rc.ExportBatchRanking)
	}
}
