package controllers

import (
	"context"
	"net/http"
	"time"

	"upkeep-be/aggregation"
	"upkeep-be/config"
	"upkeep-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var issueCollection *mongo.Collection = config.GetCollection("issues")
var mergeGroupCollection *mongo.Collection = config.GetCollection("merged_issues")
var mergeRelCollection *mongo.Collection = config.GetCollection("issue_merges")
var userCollection *mongo.Collection = config.GetCollection("users")
var notificationCollection *mongo.Collection = config.GetCollection("notifications")

// currentUserID extracts and parses the authenticated user's ID set by the
// auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	objID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return objID, true
}

// enrichIssues resolves merge and owner metadata for each fetched issue row.
// A missing relation leaves the row unmerged; a failed count lookup degrades
// to 0 and a failed owner lookup to "Unknown" rather than aborting the list.
func enrichIssues(ctx context.Context, issues []models.Issue) []models.EnrichedIssue {
	enriched := make([]models.EnrichedIssue, 0, len(issues))
	groupCounts := make(map[primitive.ObjectID]int64)

	for _, issue := range issues {
		var row models.EnrichedIssue

		var rel models.IssueMerge
		err := mergeRelCollection.FindOne(ctx, bson.M{"issue": issue.ID}).Decode(&rel)
		if err != nil {
			row = aggregation.EnrichIssue(issue, nil, 0)
		} else {
			var group models.MergedIssue
			if err := mergeGroupCollection.FindOne(ctx, bson.M{"_id": rel.MergedIssue}).Decode(&group); err != nil {
				row = aggregation.EnrichIssue(issue, nil, 0)
			} else {
				count, ok := groupCounts[group.ID]
				if !ok {
					count, err = mergeRelCollection.CountDocuments(ctx, bson.M{"mergedIssue": group.ID})
					if err != nil {
						count = 0
					}
					groupCounts[group.ID] = count
				}
				row = aggregation.EnrichIssue(issue, &group, count)
			}
		}

		row.OwnerEmail = "Unknown"
		var owner models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": issue.Owner}).Decode(&owner); err == nil {
			row.OwnerEmail = owner.Email
		}

		enriched = append(enriched, row)
	}

	return enriched
}

// CreateIssue handles the creation of a new issue report
func CreateIssue(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required,max=1000"`
		Category    string   `json:"category" binding:"required"`
		Address     string   `json:"address,omitempty"`
		PhotoURL    *string  `json:"photoUrl,omitempty"`
		Status      *string  `json:"status,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	status := models.Open
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		status = models.IssueStatus(*input.Status)
	}

	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		Status:      status,
		Address:     input.Address,
		PhotoURL:    input.PhotoURL,
		Owner:       ownerID,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := issueCollection.InsertOne(ctx, issue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	notifyAdminsNewIssue(ctx, issue)

	c.JSON(http.StatusCreated, issue)
}

// ListIssues retrieves issues with optional filters, enriches each row with
// merge and owner metadata, and returns both the flat rows and the
// aggregated display sequence
func ListIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category := c.Query("category")
	status := c.Query("status")
	search := c.Query("search")
	mine := c.Query("mine") == "true"

	filter := bson.M{}

	if mine {
		ownerID, ok := currentUserID(c)
		if !ok {
			return
		}
		filter["owner"] = ownerID
	}

	if category != "" && category != "all" {
		filter["category"] = category
	}

	if status != "" && status != "all" {
		filter["status"] = status
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	enriched := enrichIssues(ctx, issues)
	items := aggregation.Aggregate(enriched)

	c.JSON(http.StatusOK, gin.H{
		"issues":      enriched,
		"items":       items,
		"totalIssues": len(enriched),
	})
}

// GetIssue retrieves a single issue by ID with merge and owner metadata
func GetIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	enriched := enrichIssues(ctx, []models.Issue{issue})

	c.JSON(http.StatusOK, enriched[0])
}

// UpdateIssue allows the reporter of an issue to update its details
func UpdateIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userObjID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Title       *string  `json:"title,omitempty"`
		Description *string  `json:"description,omitempty"`
		Category    *string  `json:"category,omitempty"`
		Address     *string  `json:"address,omitempty"`
		PhotoURL    *string  `json:"photoUrl,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.Owner != userObjID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this issue"})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		update["category"] = *input.Category
	}
	if input.Address != nil {
		update["address"] = *input.Address
	}
	if input.PhotoURL != nil {
		update["photoUrl"] = input.PhotoURL
	}
	if input.Latitude != nil {
		update["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		update["longitude"] = *input.Longitude
	}

	_, err = issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue updated successfully"})
}

// DeleteIssue allows the reporter of an issue to delete it
func DeleteIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userObjID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.Owner != userObjID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this issue"})
		return
	}

	_, err = issueCollection.DeleteOne(ctx, bson.M{"_id": issueID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
		return
	}

	// Remove any merge membership the issue held
	_, _ = mergeRelCollection.DeleteMany(ctx, bson.M{"issue": issueID})

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// RecentIssues returns the most recent issues that carry coordinates, for
// the map screen
func RecentIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	limit := 19

	filter := bson.M{
		"latitude":  bson.M{"$exists": true, "$ne": nil},
		"longitude": bson.M{"$exists": true, "$ne": nil},
	}

	projection := bson.M{
		"_id":       1,
		"title":     1,
		"latitude":  1,
		"longitude": 1,
		"address":   1,
		"category":  1,
		"createdAt": 1,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(projection)

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent issues"})
		return
	}
	defer cursor.Close(ctx)

	type IssueProjection struct {
		ID        primitive.ObjectID `bson:"_id" json:"id"`
		Title     string             `bson:"title" json:"title"`
		Latitude  *float64           `bson:"latitude" json:"latitude"`
		Longitude *float64           `bson:"longitude" json:"longitude"`
		Address   string             `bson:"address" json:"address"`
		Category  string             `bson:"category" json:"category"`
		CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	}

	var issues []IssueProjection
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode recent issues"})
		return
	}

	type IssueResponse struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Latitude  float64   `json:"latitude"`
		Longitude float64   `json:"longitude"`
		Address   string    `json:"address"`
		Category  string    `json:"category,omitempty"`
		CreatedAt time.Time `json:"createdAt,omitempty"`
	}

	var response []IssueResponse
	for _, issue := range issues {
		if issue.Latitude != nil && issue.Longitude != nil {
			response = append(response, IssueResponse{
				ID:        issue.ID.Hex(),
				Title:     issue.Title,
				Latitude:  *issue.Latitude,
				Longitude: *issue.Longitude,
				Address:   issue.Address,
				Category:  issue.Category,
				CreatedAt: issue.CreatedAt,
			})
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetIssueAnalytics returns aggregate numbers for the admin dashboard
func GetIssueAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	categoryPipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$category",
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	categoryCursor, err := issueCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category analytics"})
		return
	}
	defer categoryCursor.Close(ctx)

	var issuesByCategory []bson.M
	if err := categoryCursor.All(ctx, &issuesByCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode category analytics"})
		return
	}

	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		nextDate := date.AddDate(0, 0, 1)

		count, err := issueCollection.CountDocuments(ctx, bson.M{
			"createdAt": bson.M{
				"$gte": date,
				"$lt":  nextDate,
			},
		})
		if err != nil {
			count = 0
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	totalIssues, err := issueCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalIssues = 0
	}

	openIssues, err := issueCollection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{string(models.Open), string(models.InProgress)}},
	})
	if err != nil {
		openIssues = 0
	}

	resolvedIssues, err := issueCollection.CountDocuments(ctx, bson.M{
		"status": string(models.Resolved),
	})
	if err != nil {
		resolvedIssues = 0
	}

	mergedGroups, err := mergeGroupCollection.CountDocuments(ctx, bson.M{
		"status": string(models.GroupActive),
	})
	if err != nil {
		mergedGroups = 0
	}

	response := gin.H{
		"issuesByCategory": issuesByCategory,
		"last7Days":        last7Days,
		"totalIssues":      totalIssues,
		"openIssues":       openIssues,
		"resolvedIssues":   resolvedIssues,
		"mergedGroups":     mergedGroups,
	}

	c.JSON(http.StatusOK, response)
}
