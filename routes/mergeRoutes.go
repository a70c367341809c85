package routes

import (
	"upkeep-be/controllers"
	"upkeep-be/middlewares"

	"github.com/gin-gonic/gin"
)

// MergeRoutes sets up the admin merge-management routes
func MergeRoutes(r *gin.Engine) {
	merge := r.Group("/api/merge", middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		merge.POST("/create", controllers.CreateMerge)
		merge.GET("/groups", controllers.ListMergedGroups)
		merge.DELETE("/:id", controllers.UnmergeGroup)
	}
}
