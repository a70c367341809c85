package routes

import (
	"upkeep-be/controllers"
	"upkeep-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issue")
	{
		issue.POST("/create", middlewares.AuthMiddleware(), middlewares.ReportRateLimiter(10), controllers.CreateIssue)
		issue.GET("/list", middlewares.AuthMiddleware(), controllers.ListIssues)
		issue.GET("/recent", controllers.RecentIssues)
		issue.GET("/analytics", middlewares.AuthMiddleware(), middlewares.AdminMiddleware(), controllers.GetIssueAnalytics)
		issue.GET("/:id", middlewares.AuthMiddleware(), controllers.GetIssue)
		issue.PUT("/:id", middlewares.AuthMiddleware(), controllers.UpdateIssue)
		issue.DELETE("/:id", middlewares.AuthMiddleware(), controllers.DeleteIssue)
	}
}
