package services

import (
	"context"
	"math"
	"strings"
	"time"

	"mangrove-be/apperrors"
	"mangrove-be/events"
	"mangrove-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SubmitReportInput is the data accepted when a report is submitted.
type SubmitReportInput struct {
	UserID      *primitive.ObjectID
	Lat         float64
	Lng         float64
	PhotoURL    string
	Category    string
	Description string
}

// StatusUpdate is a reviewer's request to move a report to a new status.
// Category and Description are optional corrections applied alongside.
type StatusUpdate struct {
	Status      models.ReportStatus
	Reviewer    string
	Category    *string
	Description *string
}

// StatusUpdateResult pairs the updated report with the audit entry written
// for the change.
type StatusUpdateResult struct {
	Report *models.Report   `json:"report"`
	Log    *models.AuditLog `json:"log"`
}

// ReportService handles report submission, listing and reviewer status
// changes.
type ReportService struct {
	reports   ReportStore
	auditLogs AuditLogStore
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewReportService(reports ReportStore, auditLogs AuditLogStore, publisher events.Publisher, logger *zap.Logger) *ReportService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ReportService{
		reports:   reports,
		auditLogs: auditLogs,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit stores a new report. Every report starts out pending.
func (s *ReportService) Submit(ctx context.Context, input SubmitReportInput) (*models.Report, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, apperrors.Validation("category is required")
	}
	if math.IsNaN(input.Lat) || input.Lat < -90 || input.Lat > 90 {
		return nil, apperrors.Validation("lat must be between -90 and 90")
	}
	if math.IsNaN(input.Lng) || input.Lng < -180 || input.Lng > 180 {
		return nil, apperrors.Validation("lng must be between -180 and 180")
	}

	now := s.now()
	report := &models.Report{
		UserID:      input.UserID,
		Lat:         input.Lat,
		Lng:         input.Lng,
		PhotoURL:    strings.TrimSpace(input.PhotoURL),
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		s.logger.Error("Error inserting report", zap.Error(err))
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.ReportCreated,
		ReportID:   report.ID.Hex(),
		Status:     string(report.Status),
		Category:   report.Category,
		OccurredAt: now,
	})
	return report, nil
}

// List returns reports with their submitters resolved.
func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithUser, error) {
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		s.logger.Error("Error listing reports", zap.Error(err))
		return nil, err
	}
	return reports, nil
}

// Get returns one report with its submitter resolved.
func (s *ReportService) Get(ctx context.Context, id primitive.ObjectID) (*models.ReportWithUser, error) {
	report, err := s.reports.FindWithUser(ctx, id)
	if err != nil {
		s.logInternal("Error retrieving report", id, err)
		return nil, err
	}
	return report, nil
}

// UpdateStatus applies a reviewer's status change and appends exactly one
// audit entry for it. Nothing is written when the report does not exist.
// The report write and the audit write are separate operations: if the
// audit insert fails the report keeps its new status and the error is
// returned.
func (s *ReportService) UpdateStatus(ctx context.Context, id primitive.ObjectID, update StatusUpdate) (*StatusUpdateResult, error) {
	if !update.Status.Valid() {
		return nil, apperrors.Validation("status must be one of pending, in-progress, resolved, rejected")
	}
	if update.Category != nil && strings.TrimSpace(*update.Category) == "" {
		return nil, apperrors.Validation("category must not be empty")
	}

	if _, err := s.reports.FindByID(ctx, id); err != nil {
		s.logInternal("Error retrieving report", id, err)
		return nil, err
	}

	now := s.now()
	report, err := s.reports.ApplyUpdate(ctx, id, models.ReportUpdate{
		Status:      update.Status,
		Category:    update.Category,
		Description: update.Description,
	}, now)
	if err != nil {
		// deleted between lookup and update surfaces as NotFound here
		s.logInternal("Error updating report", id, err)
		return nil, err
	}

	reviewer := strings.TrimSpace(update.Reviewer)
	if reviewer == "" {
		reviewer = models.DefaultReviewer
	}

	entry := &models.AuditLog{
		ReportID:  id,
		Action:    string(update.Status),
		Reviewer:  reviewer,
		Timestamp: now,
	}
	if err := s.auditLogs.Insert(ctx, entry); err != nil {
		s.logger.Error("Report updated but audit log write failed",
			zap.String("report_id", id.Hex()),
			zap.String("status", string(update.Status)),
			zap.String("reviewer", reviewer),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Report status updated",
		zap.String("report_id", id.Hex()),
		zap.String("status", string(update.Status)),
		zap.String("reviewer", reviewer),
	)

	s.publish(ctx, events.Event{
		Type:       events.ReportStatusChanged,
		ReportID:   id.Hex(),
		Status:     string(update.Status),
		Category:   report.Category,
		Reviewer:   reviewer,
		OccurredAt: now,
	})

	return &StatusUpdateResult{Report: report, Log: entry}, nil
}

// AuditTrail returns the audit entries of an existing report, oldest first.
func (s *ReportService) AuditTrail(ctx context.Context, id primitive.ObjectID) ([]models.AuditLog, error) {
	if _, err := s.reports.FindByID(ctx, id); err != nil {
		s.logInternal("Error retrieving report", id, err)
		return nil, err
	}

	entries, err := s.auditLogs.ListByReport(ctx, id)
	if err != nil {
		s.logInternal("Error retrieving audit logs", id, err)
		return nil, err
	}
	return entries, nil
}

func (s *ReportService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish report event",
			zap.String("type", event.Type),
			zap.String("report_id", event.ReportID),
			zap.Error(err),
		)
	}
}

func (s *ReportService) logInternal(msg string, id primitive.ObjectID, err error) {
	if apperrors.CodeOf(err) == apperrors.CodeInternal {
		s.logger.Error(msg, zap.String("report_id", id.Hex()), zap.Error(err))
	}
}
