package routes

import (
	"upkeep-be/controllers"
	"upkeep-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the admin issue-management routes
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin", middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		admin.GET("/issues", controllers.AdminListIssues)
		admin.PUT("/issues/:id", controllers.AdminUpdateIssue)
	}
}
