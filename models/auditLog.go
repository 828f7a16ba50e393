package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultReviewer is recorded when a status change names no reviewer.
const DefaultReviewer = "system"

// AuditLog records one status change applied to a report. Entries are
// never updated or deleted.
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportID  primitive.ObjectID `bson:"reportId" json:"reportId"`
	Action    string             `bson:"action" json:"action"`
	Reviewer  string             `bson:"reviewer" json:"reviewer"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
