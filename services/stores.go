package services

import (
	"context"
	"time"

	"mangrove-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// ReportStore persists reports.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	FindWithUser(ctx context.Context, id primitive.ObjectID) (*models.ReportWithUser, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithUser, error)
	ApplyUpdate(ctx context.Context, id primitive.ObjectID, update models.ReportUpdate, now time.Time) (*models.Report, error)
}

// AuditLogStore appends and reads audit entries.
type AuditLogStore interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	ListByReport(ctx context.Context, reportID primitive.ObjectID) ([]models.AuditLog, error)
}
