package repositories

import (
	"context"
	"time"

	"mangrove-be/apperrors"
	"mangrove-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditLogRepository appends and lists audit entries. It has no update or
// delete operations.
type AuditLogRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewAuditLogRepository(db *mongo.Database, timeout time.Duration) *AuditLogRepository {
	return &AuditLogRepository{
		collection: db.Collection(models.AuditLogsCollection),
		timeout:    timeout,
	}
}

// Insert appends entry and sets its ID.
func (r *AuditLogRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return apperrors.Internal("failed to insert audit log", err)
	}
	return nil
}

// ListByReport returns the entries for a report, oldest first.
func (r *AuditLogRepository) ListByReport(ctx context.Context, reportID primitive.ObjectID) ([]models.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"reportId": reportID}, findOptions)
	if err != nil {
		return nil, apperrors.Internal("failed to retrieve audit logs", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.AuditLog, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, apperrors.Internal("failed to decode audit logs", err)
	}
	return entries, nil
}
