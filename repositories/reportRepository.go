package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"mangrove-be/apperrors"
	"mangrove-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportRepository persists reports and resolves their submitters.
type ReportRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewReportRepository(db *mongo.Database, timeout time.Duration) *ReportRepository {
	return &ReportRepository{
		collection: db.Collection(models.ReportsCollection),
		timeout:    timeout,
	}
}

// Create inserts report and sets its ID.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, report); err != nil {
		return apperrors.Internal("failed to insert report", err)
	}
	return nil
}

// FindByID returns the stored report without resolving its user.
func (r *ReportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var report models.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Report not found")
		}
		return nil, apperrors.Internal("failed to retrieve report", err)
	}
	return &report, nil
}

// FindWithUser returns one report with its user resolved.
func (r *ReportRepository) FindWithUser(ctx context.Context, id primitive.ObjectID) (*models.ReportWithUser, error) {
	reports, err := r.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, apperrors.NotFound("Report not found")
	}
	return &reports[0], nil
}

// List returns the reports matching filter, newest first, each with its
// user resolved inline.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithUser, error) {
	return r.aggregate(ctx, listMatch(filter))
}

// listMatch builds the $match stage for filter. Category matches any
// report whose category contains the term, ignoring case.
func listMatch(filter models.ReportFilter) bson.M {
	match := bson.M{}
	if filter.Status != "" {
		match["status"] = filter.Status
	}
	if filter.Category != "" {
		match["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Category), Options: "i"}
	}
	if filter.UserID != nil {
		match["userId"] = *filter.UserID
	}
	return match
}

func (r *ReportRepository) aggregate(ctx context.Context, match bson.M) ([]models.ReportWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: models.UsersCollection},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Internal("failed to retrieve reports", err)
	}
	defer cursor.Close(ctx)

	reports := make([]models.ReportWithUser, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, apperrors.Internal("failed to decode reports", err)
	}
	return reports, nil
}

// ApplyUpdate overwrites the permitted fields of the report and returns the
// updated document.
func (r *ReportRepository) ApplyUpdate(ctx context.Context, id primitive.ObjectID, update models.ReportUpdate, now time.Time) (*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	set := bson.M{
		"status":    update.Status,
		"updatedAt": now,
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var report models.Report
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Report not found")
		}
		return nil, apperrors.Internal("failed to update report", err)
	}
	return &report, nil
}
