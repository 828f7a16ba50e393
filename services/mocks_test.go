package services

import (
	"context"
	"time"

	"mangrove-be/events"
	"mangrove-be/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportStore) FindWithUser(ctx context.Context, id primitive.ObjectID) (*models.ReportWithUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportWithUser), args.Error(1)
}

func (m *MockReportStore) List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithUser, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReportWithUser), args.Error(1)
}

func (m *MockReportStore) ApplyUpdate(ctx context.Context, id primitive.ObjectID, update models.ReportUpdate, now time.Time) (*models.Report, error) {
	args := m.Called(ctx, id, update, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

type MockAuditLogStore struct {
	mock.Mock
}

func (m *MockAuditLogStore) Insert(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogStore) ListByReport(ctx context.Context, reportID primitive.ObjectID) ([]models.AuditLog, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
