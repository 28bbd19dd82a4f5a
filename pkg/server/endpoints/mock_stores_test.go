package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// authedRequest builds a request carrying the session identity that the
// middleware would normally attach.
func authedRequest(method, target, body, userID, orgID, role string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.OrganizationIDKey, orgID)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
	return req.WithContext(ctx)
}

func withMuxVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) GetUser(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUsersStore) UpdatePassword(email string, passwordHash []byte) error {
	args := m.Called(email, passwordHash)
	return args.Error(0)
}

// MockDocumentsStore implements store.DocumentsStore for testing using testify/mock
type MockDocumentsStore struct {
	mock.Mock
}

func NewMockDocumentsStore() *MockDocumentsStore {
	return &MockDocumentsStore{}
}

func (m *MockDocumentsStore) ListDocuments(orgID string, filter store.DocumentFilter) ([]model.Document, error) {
	args := m.Called(orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentsStore) CountDocuments(orgID string, filter store.DocumentFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentsStore) GetDocument(orgID, id string) (*model.Document, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentsStore) CreateDocument(doc *model.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockDocumentsStore) UpdateDocumentStatus(id, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockDocumentsStore) DeleteDocument(orgID, id string) error {
	args := m.Called(orgID, id)
	return args.Error(0)
}

// MockAnalysesStore implements store.AnalysesStore for testing using testify/mock
type MockAnalysesStore struct {
	mock.Mock
}

func NewMockAnalysesStore() *MockAnalysesStore {
	return &MockAnalysesStore{}
}

func (m *MockAnalysesStore) GetAnalysisByDocument(orgID, documentID string) (*model.ParsedSOC2, error) {
	args := m.Called(orgID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParsedSOC2), args.Error(1)
}

func (m *MockAnalysesStore) GetLatestAnalysis(orgID string) (*model.ParsedSOC2, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParsedSOC2), args.Error(1)
}

// MockJobsStore implements store.JobsStore for testing using testify/mock
type MockJobsStore struct {
	mock.Mock
}

func NewMockJobsStore() *MockJobsStore {
	return &MockJobsStore{}
}

func (m *MockJobsStore) CreateJob(job *model.ExtractionJob) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *MockJobsStore) GetJob(orgID, id string) (*model.ExtractionJob, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractionJob), args.Error(1)
}

func (m *MockJobsStore) GetLatestJobForDocument(orgID, documentID string) (*model.ExtractionJob, error) {
	args := m.Called(orgID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractionJob), args.Error(1)
}

// MockVendorsStore implements store.VendorsStore for testing using testify/mock
type MockVendorsStore struct {
	mock.Mock
}

func NewMockVendorsStore() *MockVendorsStore {
	return &MockVendorsStore{}
}

func (m *MockVendorsStore) ListVendors(orgID string, filter store.VendorFilter) ([]model.Vendor, error) {
	args := m.Called(orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vendor), args.Error(1)
}

func (m *MockVendorsStore) CountVendors(orgID string, filter store.VendorFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVendorsStore) GetVendor(orgID, id string) (*model.Vendor, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vendor), args.Error(1)
}

func (m *MockVendorsStore) CreateVendor(vendor *model.Vendor) error {
	args := m.Called(vendor)
	return args.Error(0)
}

func (m *MockVendorsStore) UpdateVendor(orgID, id string, updates map[string]any) (*model.Vendor, error) {
	args := m.Called(orgID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vendor), args.Error(1)
}

func (m *MockVendorsStore) DeleteVendor(orgID, id string) error {
	args := m.Called(orgID, id)
	return args.Error(0)
}

func (m *MockVendorsStore) ListAssessments(orgID, vendorID string) ([]model.VendorAssessment, error) {
	args := m.Called(orgID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VendorAssessment), args.Error(1)
}

// MockTasksStore implements store.TasksStore for testing using testify/mock
type MockTasksStore struct {
	mock.Mock
}

func NewMockTasksStore() *MockTasksStore {
	return &MockTasksStore{}
}

func (m *MockTasksStore) ListTasks(orgID string, filter store.TaskFilter) ([]model.Task, error) {
	args := m.Called(orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTasksStore) CountTasks(orgID string, filter store.TaskFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTasksStore) GetTask(orgID, id string) (*model.Task, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTasksStore) CreateTask(task *model.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockTasksStore) UpdateTask(orgID, id string, updates map[string]any) (*model.Task, error) {
	args := m.Called(orgID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTasksStore) DeleteTask(orgID, id string) error {
	args := m.Called(orgID, id)
	return args.Error(0)
}

func (m *MockTasksStore) ListComments(orgID, taskID string) ([]model.TaskComment, error) {
	args := m.Called(orgID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskComment), args.Error(1)
}

func (m *MockTasksStore) AddComment(comment *model.TaskComment) error {
	args := m.Called(comment)
	return args.Error(0)
}

// MockIncidentsStore implements store.IncidentsStore for testing using testify/mock
type MockIncidentsStore struct {
	mock.Mock
}

func NewMockIncidentsStore() *MockIncidentsStore {
	return &MockIncidentsStore{}
}

func (m *MockIncidentsStore) ListIncidents(orgID string, filter store.IncidentFilter) ([]model.Incident, error) {
	args := m.Called(orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Incident), args.Error(1)
}

func (m *MockIncidentsStore) CountIncidents(orgID string, filter store.IncidentFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIncidentsStore) GetIncident(orgID, id string) (*model.Incident, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Incident), args.Error(1)
}

func (m *MockIncidentsStore) CreateIncident(incident *model.Incident) error {
	args := m.Called(incident)
	return args.Error(0)
}

func (m *MockIncidentsStore) UpdateIncident(orgID, id string, updates map[string]any) (*model.Incident, error) {
	args := m.Called(orgID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Incident), args.Error(1)
}

func (m *MockIncidentsStore) DeleteIncident(orgID, id string) error {
	args := m.Called(orgID, id)
	return args.Error(0)
}

// MockWidgetsStore implements store.WidgetsStore for testing using testify/mock
type MockWidgetsStore struct {
	mock.Mock
}

func NewMockWidgetsStore() *MockWidgetsStore {
	return &MockWidgetsStore{}
}

func (m *MockWidgetsStore) ListWidgets(orgID, userID string) ([]model.DashboardWidget, error) {
	args := m.Called(orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DashboardWidget), args.Error(1)
}

func (m *MockWidgetsStore) GetWidget(orgID, userID, id string) (*model.DashboardWidget, error) {
	args := m.Called(orgID, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardWidget), args.Error(1)
}

func (m *MockWidgetsStore) CreateWidget(widget *model.DashboardWidget) error {
	args := m.Called(widget)
	return args.Error(0)
}

func (m *MockWidgetsStore) UpdateWidget(orgID, userID, id string, updates map[string]any) (*model.DashboardWidget, error) {
	args := m.Called(orgID, userID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardWidget), args.Error(1)
}

func (m *MockWidgetsStore) DeleteWidget(orgID, userID, id string) error {
	args := m.Called(orgID, userID, id)
	return args.Error(0)
}

// MockDashboardStore implements store.DashboardStore for testing using testify/mock
type MockDashboardStore struct {
	mock.Mock
}

func NewMockDashboardStore() *MockDashboardStore {
	return &MockDashboardStore{}
}

func (m *MockDashboardStore) VendorSummary(orgID string) (*store.VendorSummary, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.VendorSummary), args.Error(1)
}

func (m *MockDashboardStore) TaskSummary(orgID string) (*store.TaskSummary, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.TaskSummary), args.Error(1)
}

func (m *MockDashboardStore) IncidentSummary(orgID string) (*store.IncidentSummary, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.IncidentSummary), args.Error(1)
}

func (m *MockDashboardStore) ComplianceSummary(orgID string, limit int) (*store.ComplianceSummary, error) {
	args := m.Called(orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ComplianceSummary), args.Error(1)
}

func (m *MockDashboardStore) DocumentSummary(orgID string) (*store.DocumentSummary, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DocumentSummary), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
