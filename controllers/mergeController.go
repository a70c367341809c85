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
)

// CreateMerge groups two or more ungrouped issues under a new merged group.
// The group row is inserted first, then one relation row per issue; if the
// relation insert fails the group persists without members.
func CreateMerge(c *gin.Context) {
	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description *string  `json:"description,omitempty"`
		IssueIDs    []string `json:"issueIds" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.IssueIDs) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 2 issues are required to merge"})
		return
	}

	issueIDs := make([]primitive.ObjectID, 0, len(input.IssueIDs))
	for _, id := range input.IssueIDs {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID: " + id})
			return
		}
		issueIDs = append(issueIDs, objID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := issueCollection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": issueIDs}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify issues"})
		return
	}
	if existing != int64(len(issueIDs)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more issues do not exist"})
		return
	}

	grouped, err := mergeRelCollection.CountDocuments(ctx, bson.M{"issue": bson.M{"$in": issueIDs}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify merge state"})
		return
	}
	if grouped > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more issues already belong to a merged group"})
		return
	}

	group := models.MergedIssue{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Status:      models.GroupActive,
		CreatedAt:   time.Now(),
	}

	_, err = mergeGroupCollection.InsertOne(ctx, group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create merged group"})
		return
	}

	relations := make([]interface{}, 0, len(issueIDs))
	for _, issueID := range issueIDs {
		relations = append(relations, models.IssueMerge{
			ID:          primitive.NewObjectID(),
			Issue:       issueID,
			MergedIssue: group.ID,
			CreatedAt:   time.Now(),
		})
	}

	_, err = mergeRelCollection.InsertMany(ctx, relations)
	if err != nil {
		log.Println("Error inserting merge relations, group left without members:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach issues to merged group"})
		return
	}

	c.JSON(http.StatusCreated, group)
}

// ListMergedGroups returns every active merged group with its member issues,
// member count, and effective date
func ListMergedGroups(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := mergeGroupCollection.Find(ctx, bson.M{"status": string(models.GroupActive)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve merged groups"})
		return
	}
	defer cursor.Close(ctx)

	var groups []models.MergedIssue
	if err := cursor.All(ctx, &groups); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode merged groups"})
		return
	}

	response := make([]gin.H, 0, len(groups))

	for _, group := range groups {
		relCursor, err := mergeRelCollection.Find(ctx, bson.M{"mergedIssue": group.ID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve merge relations"})
			return
		}

		var relations []models.IssueMerge
		if err := relCursor.All(ctx, &relations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode merge relations"})
			return
		}

		memberIDs := make([]primitive.ObjectID, 0, len(relations))
		for _, rel := range relations {
			memberIDs = append(memberIDs, rel.Issue)
		}

		var members []models.Issue
		if len(memberIDs) > 0 {
			memberCursor, err := issueCollection.Find(ctx, bson.M{"_id": bson.M{"$in": memberIDs}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member issues"})
				return
			}
			if err := memberCursor.All(ctx, &members); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode member issues"})
				return
			}
		}

		// Effective date: earliest member report, not the group row's own date
		effective := group.CreatedAt
		for i, member := range members {
			if i == 0 || member.CreatedAt.Before(effective) {
				effective = member.CreatedAt
			}
		}

		response = append(response, gin.H{
			"id":          group.ID,
			"title":       group.Title,
			"description": group.Description,
			"status":      group.Status,
			"issueCount":  len(members),
			"issues":      members,
			"createdAt":   effective,
		})
	}

	c.JSON(http.StatusOK, response)
}

// UnmergeGroup deletes all membership relations of a group and then the
// group row itself, returning member issues to standalone status
func UnmergeGroup(c *gin.Context) {
	idParam := c.Param("id")
	groupID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := mergeGroupCollection.CountDocuments(ctx, bson.M{"_id": groupID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify merged group"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Merged group not found"})
		return
	}

	_, err = mergeRelCollection.DeleteMany(ctx, bson.M{"mergedIssue": groupID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete merge relations"})
		return
	}

	_, err = mergeGroupCollection.DeleteOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete merged group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issues unmerged successfully"})
}
