package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupStatus enum
type GroupStatus string

const (
	GroupActive GroupStatus = "ACTIVE"
)

// MergedIssue is an admin-created cluster of duplicate issues
type MergedIssue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	Status      GroupStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// IssueMerge is a membership relation between an issue and a merged group
type IssueMerge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue       primitive.ObjectID `bson:"issue" json:"issueId"`
	MergedIssue primitive.ObjectID `bson:"mergedIssue" json:"mergedIssueId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureMergeIndexes creates a unique index on issue so an issue can belong
// to at most one merged group at a time
func EnsureMergeIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "issue", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
