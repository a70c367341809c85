package routes

import (
	"upkeep-be/controllers"
	"upkeep-be/middlewares"

	"github.com/gin-gonic/gin"
)

// NotificationRoutes sets up the notification routes
func NotificationRoutes(r *gin.Engine) {
	notification := r.Group("/api/notification", middlewares.AuthMiddleware())
	{
		notification.GET("/list", controllers.ListNotifications)
		notification.PUT("/read-all", controllers.MarkAllNotificationsRead)
		notification.PUT("/:id/read", controllers.MarkNotificationRead)
	}
}
