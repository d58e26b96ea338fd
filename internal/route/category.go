package route

import (
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Categories(r *gin.RouterGroup, cc *controller.CategoryController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/categories")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/catalog", cc.GetCatalog)
	}

	admin := r.Group("/v1/admin/categories")
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	{
		admin.GET("", cc.ListCategories)
		admin.POST("", cc.CreateCategory)
		admin.PATCH("/:categoryId", cc.UpdateCategory)
		admin.DELETE("/:categoryId", cc.DeleteCategory)
		admin.POST("/:categoryId/items", cc.CreateItem)
		admin.DELETE("/items/:itemId", cc.DeleteItem)
		admin.PATCH("/items/:itemId/rubric", cc.UpdateRubricScore)
	}
}
