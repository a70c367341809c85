package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Road     IssueCategory = "road"
	Lighting IssueCategory = "lighting"
	Waste    IssueCategory = "waste"
	Water    IssueCategory = "water"
	Safety   IssueCategory = "safety"
	Other    IssueCategory = "other"
)

// IssueStatus enum
type IssueStatus string

const (
	Open       IssueStatus = "OPEN"
	InProgress IssueStatus = "IN_PROGRESS"
	Resolved   IssueStatus = "RESOLVED"
	Closed     IssueStatus = "CLOSED"
)

// ValidCategory reports whether s is one of the known issue categories.
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Road, Lighting, Waste, Water, Safety, Other:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known issue statuses.
func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case Open, InProgress, Resolved, Closed:
		return true
	}
	return false
}

// Issue represents a problem reported by a citizen
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    IssueCategory      `bson:"category" json:"category"`
	Status      IssueStatus        `bson:"status" json:"status"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Latitude    *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	PhotoURL    *string            `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	AdminNotes  *string            `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	Owner       primitive.ObjectID `bson:"owner" json:"ownerId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnrichedIssue is an Issue augmented at query time with merge and owner
// metadata. None of the extra fields are persisted on the issue row.
type EnrichedIssue struct {
	Issue
	IsMerged         bool   `json:"isMerged"`
	MergedGroupID    string `json:"mergedGroupId,omitempty"`
	MergedGroupTitle string `json:"mergedGroupTitle,omitempty"`
	MergedCount      int64  `json:"mergedCount,omitempty"`
	OwnerEmail       string `json:"ownerEmail,omitempty"`
}
