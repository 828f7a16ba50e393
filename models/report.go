package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus enum
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in-progress"
	StatusResolved   ReportStatus = "resolved"
	StatusRejected   ReportStatus = "rejected"
)

// Valid reports whether s is one of the statuses reviewers work with.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Report represents a suspected threat submitted against a location
type Report struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Lat         float64             `bson:"lat" json:"lat"`
	Lng         float64             `bson:"lng" json:"lng"`
	PhotoURL    string              `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Category    string              `bson:"category" json:"category"`
	Description string              `bson:"description" json:"description"`
	Status      ReportStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ReportWithUser is a report with its submitter resolved. User is nil when
// the report is anonymous or the referenced user no longer exists.
type ReportWithUser struct {
	Report `bson:",inline"`
	User   *UserSummary `bson:"user,omitempty" json:"user"`
}

// ReportFilter narrows a report listing. Zero values match everything.
type ReportFilter struct {
	Status   ReportStatus
	Category string
	UserID   *primitive.ObjectID
}

// ReportUpdate enumerates the fields a status update may change.
type ReportUpdate struct {
	Status      ReportStatus
	Category    *string
	Description *string
}
