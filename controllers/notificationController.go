package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"upkeep-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notifyAdminsNewIssue creates one NEW_ISSUE notification per admin user.
// Failures are logged and swallowed; the report itself already succeeded.
func notifyAdminsNewIssue(ctx context.Context, issue models.Issue) {
	cursor, err := userCollection.Find(ctx, bson.M{"role": string(models.RoleAdmin)})
	if err != nil {
		log.Println("Error fetching admin users for notification:", err)
		return
	}

	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		log.Println("Error decoding admin users for notification:", err)
		return
	}
	if len(admins) == 0 {
		return
	}

	notifications := make([]interface{}, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, models.Notification{
			ID:        primitive.NewObjectID(),
			User:      admin.ID,
			Title:     "New Issue Submitted",
			Message:   `A new issue "` + issue.Title + `" has been submitted and requires attention.`,
			Type:      models.NotifyNewIssue,
			Reference: issue.ID,
			CreatedAt: time.Now(),
		})
	}

	if _, err := notificationCollection.InsertMany(ctx, notifications); err != nil {
		log.Println("Error creating new issue notifications:", err)
	}
}

// notifyOwnerAdminResponse tells the reporter an official response was
// posted on their issue. Best effort, like notifyAdminsNewIssue.
func notifyOwnerAdminResponse(ctx context.Context, issue models.Issue) {
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		User:      issue.Owner,
		Title:     "Official Response Received",
		Message:   `An administrator has posted an official response to your issue "` + issue.Title + `".`,
		Type:      models.NotifyAdminResponse,
		Reference: issue.ID,
		CreatedAt: time.Now(),
	}

	if _, err := notificationCollection.InsertOne(ctx, notification); err != nil {
		log.Println("Error creating admin response notification:", err)
	}
}

// ListNotifications returns the caller's notifications, newest first
func ListNotifications(c *gin.Context) {
	userObjID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := notificationCollection.Find(ctx, bson.M{"user": userObjID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode notifications"})
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read
func MarkNotificationRead(c *gin.Context) {
	idParam := c.Param("id")
	notificationID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	userObjID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := notificationCollection.UpdateOne(ctx,
		bson.M{"_id": notificationID, "user": userObjID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification of the caller
func MarkAllNotificationsRead(c *gin.Context) {
	userObjID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := notificationCollection.UpdateMany(ctx,
		bson.M{"user": userObjID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
