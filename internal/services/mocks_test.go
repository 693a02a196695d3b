package services

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/mg3/promag-api/types"
)

// MockProjectRepo is a mock implementation of ProjectRepository
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) List(ctx context.Context) ([]types.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Project), args.Error(1)
}

func (m *MockProjectRepo) Get(ctx context.Context, projectID string) (types.Project, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(types.Project), args.Error(1)
}

func (m *MockProjectRepo) Exists(ctx context.Context, projectID string) (bool, error) {
	args := m.Called(ctx, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepo) Create(ctx context.Context, project types.Project) (types.Project, error) {
	args := m.Called(ctx, project)
	return args.Get(0).(types.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, project types.Project) (types.Project, error) {
	args := m.Called(ctx, project)
	return args.Get(0).(types.Project), args.Error(1)
}

func (m *MockProjectRepo) SetImageURL(ctx context.Context, projectID string, imageURL *string) (types.Project, error) {
	args := m.Called(ctx, projectID, imageURL)
	return args.Get(0).(types.Project), args.Error(1)
}

func (m *MockProjectRepo) Delete(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

// MockSubmittalRepo is a mock implementation of SubmittalRepository
type MockSubmittalRepo struct {
	mock.Mock
}

func (m *MockSubmittalRepo) List(ctx context.Context) ([]types.Submittal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Submittal), args.Error(1)
}

func (m *MockSubmittalRepo) Get(ctx context.Context, id int64) (types.Submittal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.Submittal), args.Error(1)
}

func (m *MockSubmittalRepo) Create(ctx context.Context, submittal types.Submittal) (types.Submittal, error) {
	args := m.Called(ctx, submittal)
	if fn, ok := args.Get(0).(func(context.Context, types.Submittal) types.Submittal); ok {
		return fn(ctx, submittal), args.Error(1)
	}
	return args.Get(0).(types.Submittal), args.Error(1)
}

func (m *MockSubmittalRepo) Update(ctx context.Context, submittal types.Submittal) (types.Submittal, error) {
	args := m.Called(ctx, submittal)
	return args.Get(0).(types.Submittal), args.Error(1)
}

func (m *MockSubmittalRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRFIRepo is a mock implementation of RFIRepository
type MockRFIRepo struct {
	mock.Mock
}

func (m *MockRFIRepo) List(ctx context.Context) ([]types.RFI, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RFI), args.Error(1)
}

func (m *MockRFIRepo) Get(ctx context.Context, id int64) (types.RFI, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.RFI), args.Error(1)
}

func (m *MockRFIRepo) Create(ctx context.Context, rfi types.RFI) (types.RFI, error) {
	args := m.Called(ctx, rfi)
	if fn, ok := args.Get(0).(func(context.Context, types.RFI) types.RFI); ok {
		return fn(ctx, rfi), args.Error(1)
	}
	return args.Get(0).(types.RFI), args.Error(1)
}

func (m *MockRFIRepo) Update(ctx context.Context, rfi types.RFI) (types.RFI, error) {
	args := m.Called(ctx, rfi)
	return args.Get(0).(types.RFI), args.Error(1)
}

func (m *MockRFIRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDashboardRepo is a mock implementation of DashboardRepository
type MockDashboardRepo struct {
	mock.Mock
}

func (m *MockDashboardRepo) Summary(ctx context.Context) (types.DashboardSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.DashboardSummary), args.Error(1)
}

// MockImageStore is a mock implementation of ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockImageStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// recordingNotifier keeps every event it receives.
type recordingNotifier struct {
	mu     sync.Mutex
	events []types.ChangeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event types.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []types.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]types.ChangeEvent(nil), n.events...)
}
