package controllers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mangrove-be/apperrors"
	"mangrove-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore backs the three services interfaces with maps so handler tests
// exercise the real services end to end.
type memStore struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]models.User
	reports map[primitive.ObjectID]models.Report
	audit   []models.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[primitive.ObjectID]models.User{},
		reports: map[primitive.ObjectID]models.Report{},
	}
}

type memUsers struct{ *memStore }
type memReports struct{ *memStore }
type memAudit struct{ *memStore }

func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = *user
	return nil
}

func (m memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return &user, nil
}

func (m memReports) Create(_ context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.ID = primitive.NewObjectID()
	m.reports[report.ID] = *report
	return nil
}

func (m memReports) FindByID(_ context.Context, id primitive.ObjectID) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, apperrors.NotFound("Report not found")
	}
	return &report, nil
}

func (m memReports) withUser(report models.Report) models.ReportWithUser {
	out := models.ReportWithUser{Report: report}
	if report.UserID != nil {
		if user, ok := m.users[*report.UserID]; ok {
			out.User = &models.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone, Role: user.Role}
		}
	}
	return out
}

func (m memReports) FindWithUser(_ context.Context, id primitive.ObjectID) (*models.ReportWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, apperrors.NotFound("Report not found")
	}
	out := m.withUser(report)
	return &out, nil
}

func (m memReports) List(_ context.Context, filter models.ReportFilter) ([]models.ReportWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ReportWithUser{}
	for _, report := range m.reports {
		if filter.Status != "" && report.Status != filter.Status {
			continue
		}
		if filter.Category != "" && !strings.Contains(strings.ToLower(report.Category), strings.ToLower(filter.Category)) {
			continue
		}
		if filter.UserID != nil && (report.UserID == nil || *report.UserID != *filter.UserID) {
			continue
		}
		out = append(out, m.withUser(report))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memReports) ApplyUpdate(_ context.Context, id primitive.ObjectID, update models.ReportUpdate, now time.Time) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, apperrors.NotFound("Report not found")
	}
	report.Status = update.Status
	if update.Category != nil {
		report.Category = *update.Category
	}
	if update.Description != nil {
		report.Description = *update.Description
	}
	report.UpdatedAt = now
	m.reports[id] = report
	return &report, nil
}

func (m memAudit) Insert(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	m.audit = append(m.audit, *entry)
	return nil
}

func (m memAudit) ListByReport(_ context.Context, reportID primitive.ObjectID) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AuditLog{}
	for _, entry := range m.audit {
		if entry.ReportID == reportID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *memStore) auditCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.audit)
}
