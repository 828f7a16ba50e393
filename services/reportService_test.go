package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mangrove-be/apperrors"
	"mangrove-be/events"
	"mangrove-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

type reportFixture struct {
	reports   *MockReportStore
	auditLogs *MockAuditLogStore
	publisher *MockPublisher
	logs      *observer.ObservedLogs
	service   *ReportService
}

func newReportFixture() *reportFixture {
	core, logs := observer.New(zapcore.InfoLevel)
	f := &reportFixture{
		reports:   new(MockReportStore),
		auditLogs: new(MockAuditLogStore),
		publisher: new(MockPublisher),
		logs:      logs,
	}
	f.service = NewReportService(f.reports, f.auditLogs, f.publisher, zap.New(core))
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func TestReportService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("new reports are pending", func(t *testing.T) {
		f := newReportFixture()
		userID := primitive.NewObjectID()

		f.reports.On("Create", ctx, mock.AnythingOfType("*models.Report")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Report).ID = primitive.NewObjectID()
			}).
			Return(nil)
		f.publisher.On("Publish", ctx, mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.ReportCreated && e.Status == "pending" && e.Category == "Illegal Logging"
		})).Return(nil)

		report, err := f.service.Submit(ctx, SubmitReportInput{
			UserID:      &userID,
			Lat:         -4.05,
			Lng:         39.66,
			Category:    " Illegal Logging ",
			Description: "fresh stumps near the creek",
			PhotoURL:    "http://localhost:8080/uploads/1_a.jpg",
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, report.Status)
		assert.Equal(t, "Illegal Logging", report.Category)
		assert.Equal(t, &userID, report.UserID)
		assert.Equal(t, fixedNow, report.CreatedAt)
		f.reports.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("missing category", func(t *testing.T) {
		f := newReportFixture()

		_, err := f.service.Submit(ctx, SubmitReportInput{Lat: 1, Lng: 1})

		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
		f.reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("coordinates out of range", func(t *testing.T) {
		f := newReportFixture()

		_, err := f.service.Submit(ctx, SubmitReportInput{Category: "Dumping", Lat: 91, Lng: 0})
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

		_, err = f.service.Submit(ctx, SubmitReportInput{Category: "Dumping", Lat: 0, Lng: -181})
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	})

	t.Run("publish failure does not fail the submission", func(t *testing.T) {
		f := newReportFixture()
		f.reports.On("Create", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("redis down"))

		report, err := f.service.Submit(ctx, SubmitReportInput{Category: "Dumping"})

		require.NoError(t, err)
		assert.NotNil(t, report)
		assert.Equal(t, 1, f.logs.FilterMessage("Failed to publish report event").Len())
	})
}

func TestReportService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a report and writes one audit entry", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()
		existing := &models.Report{ID: id, Category: "Illegal Logging", Description: "...", Status: models.StatusPending}
		updated := &models.Report{ID: id, Category: "Illegal Logging", Description: "...", Status: models.StatusResolved, UpdatedAt: fixedNow}

		f.reports.On("FindByID", ctx, id).Return(existing, nil)
		f.reports.On("ApplyUpdate", ctx, id, models.ReportUpdate{Status: models.StatusResolved}, fixedNow).Return(updated, nil)
		f.auditLogs.On("Insert", ctx, mock.MatchedBy(func(e *models.AuditLog) bool {
			return e.ReportID == id && e.Action == "resolved" && e.Reviewer == "ngo_alice" && e.Timestamp.Equal(fixedNow)
		})).Return(nil).Once()
		f.publisher.On("Publish", ctx, mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.ReportStatusChanged && e.Reviewer == "ngo_alice"
		})).Return(nil)

		result, err := f.service.UpdateStatus(ctx, id, StatusUpdate{Status: models.StatusResolved, Reviewer: "ngo_alice"})

		require.NoError(t, err)
		assert.Equal(t, models.StatusResolved, result.Report.Status)
		assert.Equal(t, "resolved", result.Log.Action)
		assert.Equal(t, "ngo_alice", result.Log.Reviewer)
		assert.Equal(t, id, result.Log.ReportID)
		f.auditLogs.AssertNumberOfCalls(t, "Insert", 1)
		f.reports.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("reviewer defaults to system", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()

		f.reports.On("FindByID", ctx, id).Return(&models.Report{ID: id}, nil)
		f.reports.On("ApplyUpdate", ctx, id, mock.Anything, fixedNow).Return(&models.Report{ID: id, Status: models.StatusInProgress}, nil)
		f.auditLogs.On("Insert", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := f.service.UpdateStatus(ctx, id, StatusUpdate{Status: models.StatusInProgress, Reviewer: "   "})

		require.NoError(t, err)
		assert.Equal(t, models.DefaultReviewer, result.Log.Reviewer)
		assert.Equal(t, "in-progress", result.Log.Action)
	})

	t.Run("optional fields are passed through", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()
		category := "Mangrove Cutting"
		description := "confirmed on site"
		want := models.ReportUpdate{Status: models.StatusRejected, Category: &category, Description: &description}

		f.reports.On("FindByID", ctx, id).Return(&models.Report{ID: id}, nil)
		f.reports.On("ApplyUpdate", ctx, id, want, fixedNow).Return(&models.Report{ID: id, Status: models.StatusRejected, Category: category}, nil)
		f.auditLogs.On("Insert", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := f.service.UpdateStatus(ctx, id, StatusUpdate{
			Status:      models.StatusRejected,
			Category:    &category,
			Description: &description,
		})

		require.NoError(t, err)
		f.reports.AssertExpectations(t)
	})

	t.Run("unknown report writes nothing", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()
		f.reports.On("FindByID", ctx, id).Return(nil, apperrors.NotFound("Report not found"))

		_, err := f.service.UpdateStatus(ctx, id, StatusUpdate{Status: models.StatusResolved})

		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
		f.reports.AssertNotCalled(t, "ApplyUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.auditLogs.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("report removed before the write gets no audit entry", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()
		f.reports.On("FindByID", ctx, id).Return(&models.Report{ID: id}, nil)
		f.reports.On("ApplyUpdate", ctx, id, mock.Anything, fixedNow).Return(nil, apperrors.NotFound("Report not found"))

		_, err := f.service.UpdateStatus(ctx, id, StatusUpdate{Status: models.StatusResolved})

		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
		f.auditLogs.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("unknown status is rejected before any read", func(t *testing.T) {
		f := newReportFixture()

		_, err := f.service.UpdateStatus(ctx, primitive.NewObjectID(), StatusUpdate{Status: "closed"})

		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
		f.reports.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("audit write failure is reported and logged", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()
		f.reports.On("FindByID", ctx, id).Return(&models.Report{ID: id}, nil)
		f.reports.On("ApplyUpdate", ctx, id, mock.Anything, fixedNow).Return(&models.Report{ID: id, Status: models.StatusResolved}, nil)
		f.auditLogs.On("Insert", ctx, mock.Anything).Return(apperrors.Internal("failed to insert audit log", errors.New("timeout")))

		_, err := f.service.UpdateStatus(ctx, id, StatusUpdate{Status: models.StatusResolved})

		assert.True(t, apperrors.Is(err, apperrors.CodeInternal))
		entries := f.logs.FilterMessage("Report updated but audit log write failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestReportService_ListAndAuditTrail(t *testing.T) {
	ctx := context.Background()

	t.Run("list passes the filter through", func(t *testing.T) {
		f := newReportFixture()
		filter := models.ReportFilter{Status: models.StatusPending, Category: "Dumping"}
		f.reports.On("List", ctx, filter).Return([]models.ReportWithUser{{Report: models.Report{Category: "Dumping"}}}, nil)

		reports, err := f.service.List(ctx, filter)

		require.NoError(t, err)
		assert.Len(t, reports, 1)
	})

	t.Run("audit trail of an existing report", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()
		f.reports.On("FindByID", ctx, id).Return(&models.Report{ID: id}, nil)
		f.auditLogs.On("ListByReport", ctx, id).Return([]models.AuditLog{{ReportID: id, Action: "resolved"}}, nil)

		entries, err := f.service.AuditTrail(ctx, id)

		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("audit trail of an unknown report", func(t *testing.T) {
		f := newReportFixture()
		id := primitive.NewObjectID()
		f.reports.On("FindByID", ctx, id).Return(nil, apperrors.NotFound("Report not found"))

		_, err := f.service.AuditTrail(ctx, id)

		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
		f.auditLogs.AssertNotCalled(t, "ListByReport", mock.Anything, mock.Anything)
	})
}
