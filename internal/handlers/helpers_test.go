package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/internal/storage"
	"github.com/mg3/promag-api/internal/store"
	"github.com/mg3/promag-api/types"
)

const (
	testUsername = "admin"
	testPassword = "s3cret"
)

var errMissingTable = &store.StoreError{
	Kind: store.ErrSchemaNotProvisioned,
	Code: "42P01",
	Err:  errors.New(`relation "x" does not exist`),
}

// memoryUsers is an in-memory services.UserRepository.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]types.User
	err    error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{nextID: 1, users: map[string]types.User{}}
}

func (m *memoryUsers) GetByUsername(_ context.Context, username string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return types.User{}, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memoryUsers) GetByToken(_ context.Context, token string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return types.User{}, m.err
	}
	for _, u := range m.users {
		if u.APIToken != nil && *u.APIToken == token {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memoryUsers) List(_ context.Context) ([]types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, m.err
}

func (m *memoryUsers) SetToken(_ context.Context, id int64, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, u := range m.users {
		if u.ID == id {
			u.APIToken = token
			m.users[name] = u
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memoryUsers) Upsert(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[user.Username]; ok {
		user.ID = existing.ID
	} else {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.Username] = user
	return user, nil
}

// memoryProjects is an in-memory services.ProjectRepository.
type memoryProjects struct {
	mu        sync.Mutex
	projects  map[string]types.Project
	listErr   error
	createErr error
}

func newMemoryProjects() *memoryProjects {
	return &memoryProjects{projects: map[string]types.Project{}}
}

func (m *memoryProjects) List(_ context.Context) ([]types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]types.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryProjects) Get(_ context.Context, projectID string) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return types.Project{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memoryProjects) Exists(_ context.Context, projectID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.projects[projectID]
	return ok, nil
}

func (m *memoryProjects) Create(_ context.Context, project types.Project) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return types.Project{}, m.createErr
	}
	if _, ok := m.projects[project.ProjectID]; ok {
		return types.Project{}, &store.StoreError{Kind: store.ErrConflict, Code: "23505", Err: errors.New("duplicate key")}
	}
	m.projects[project.ProjectID] = project
	return project, nil
}

func (m *memoryProjects) Update(_ context.Context, project types.Project) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.projects[project.ProjectID]
	if !ok {
		return types.Project{}, store.ErrNotFound
	}
	project.ImageURL = existing.ImageURL
	m.projects[project.ProjectID] = project
	return project, nil
}

func (m *memoryProjects) SetImageURL(_ context.Context, projectID string, imageURL *string) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return types.Project{}, store.ErrNotFound
	}
	p.ImageURL = imageURL
	m.projects[projectID] = p
	return p, nil
}

func (m *memoryProjects) Delete(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[projectID]; !ok {
		return store.ErrNotFound
	}
	delete(m.projects, projectID)
	return nil
}

// memoryImages is an in-memory services.ImageStore.
type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: map[string][]byte{}}
}

func (m *memoryImages) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryImages) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryImages) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type MockSubmittalRepo struct {
	mock.Mock
}

func (m *MockSubmittalRepo) List(ctx context.Context) ([]types.Submittal, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]types.Submittal)
	return items, args.Error(1)
}

func (m *MockSubmittalRepo) Get(ctx context.Context, id int64) (types.Submittal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.Submittal), args.Error(1)
}

func (m *MockSubmittalRepo) Create(ctx context.Context, submittal types.Submittal) (types.Submittal, error) {
	args := m.Called(ctx, submittal)
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

type MockRFIRepo struct {
	mock.Mock
}

func (m *MockRFIRepo) List(ctx context.Context) ([]types.RFI, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]types.RFI)
	return items, args.Error(1)
}

func (m *MockRFIRepo) Get(ctx context.Context, id int64) (types.RFI, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.RFI), args.Error(1)
}

func (m *MockRFIRepo) Create(ctx context.Context, rfi types.RFI) (types.RFI, error) {
	args := m.Called(ctx, rfi)
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

type MockActionItemRepo struct {
	mock.Mock
}

func (m *MockActionItemRepo) List(ctx context.Context) ([]types.ActionItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]types.ActionItem)
	return items, args.Error(1)
}

func (m *MockActionItemRepo) Create(ctx context.Context, item types.ActionItem) (types.ActionItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(types.ActionItem), args.Error(1)
}

func (m *MockActionItemRepo) Update(ctx context.Context, item types.ActionItem) (types.ActionItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(types.ActionItem), args.Error(1)
}

func (m *MockActionItemRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReferenceRepo struct {
	mock.Mock
	kind types.ReferenceKind
}

func (m *MockReferenceRepo) Kind() types.ReferenceKind {
	return m.kind
}

func (m *MockReferenceRepo) List(ctx context.Context) ([]types.Reference, error) {
	args := m.Called(ctx)
	refs, _ := args.Get(0).([]types.Reference)
	return refs, args.Error(1)
}

func (m *MockReferenceRepo) Create(ctx context.Context, name string) (types.Reference, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(types.Reference), args.Error(1)
}

func (m *MockReferenceRepo) Update(ctx context.Context, ref types.Reference) (types.Reference, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(types.Reference), args.Error(1)
}

func (m *MockReferenceRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEORRepo struct {
	mock.Mock
}

func (m *MockEORRepo) List(ctx context.Context, eorType types.EORType) ([]types.EOR, error) {
	args := m.Called(ctx, eorType)
	eors, _ := args.Get(0).([]types.EOR)
	return eors, args.Error(1)
}

func (m *MockEORRepo) Create(ctx context.Context, eor types.EOR) (types.EOR, error) {
	args := m.Called(ctx, eor)
	return args.Get(0).(types.EOR), args.Error(1)
}

func (m *MockEORRepo) Update(ctx context.Context, eor types.EOR) (types.EOR, error) {
	args := m.Called(ctx, eor)
	return args.Get(0).(types.EOR), args.Error(1)
}

func (m *MockEORRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDashboardRepo struct {
	mock.Mock
}

func (m *MockDashboardRepo) Summary(ctx context.Context) (types.DashboardSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.DashboardSummary), args.Error(1)
}

// testAPI bundles the fakes behind a fully routed, authenticated API.
type testAPI struct {
	router     http.Handler
	users      *memoryUsers
	projects   *memoryProjects
	images     *memoryImages
	submittals *MockSubmittalRepo
	rfis       *MockRFIRepo
	actions    *MockActionItemRepo
	aors       *MockReferenceRepo
	providers  *MockReferenceRepo
	eors       *MockEORRepo
	dashboard  *MockDashboardRepo
	token      string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		users:      newMemoryUsers(),
		projects:   newMemoryProjects(),
		images:     newMemoryImages(),
		submittals: new(MockSubmittalRepo),
		rfis:       new(MockRFIRepo),
		actions:    new(MockActionItemRepo),
		aors:       &MockReferenceRepo{kind: types.ReferenceAOR},
		providers:  &MockReferenceRepo{kind: types.ReferenceProvider},
		eors:       new(MockEORRepo),
		dashboard:  new(MockDashboardRepo),
	}
	log := zap.NewNop()

	userService := services.NewUserService(api.users)
	_, err := userService.Seed(context.Background(), testUsername, testPassword, "admin@example.com", "Admin")
	require.NoError(t, err)

	projectService := services.NewProjectService(api.projects, nil)
	imageService := services.NewProjectImageService(api.projects, api.images, "/api", nil)

	auth := NewAuthHandler(userService, log)
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		HealthRouter(r)
		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, auth)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Route("/projects", func(r chi.Router) {
				ProjectRouter(r, NewProjectHandler(projectService, imageService, log))
			})
			r.Route("/submittals", func(r chi.Router) {
				TrackerRouter(r, NewSubmittalHandler(services.NewSubmittalService(api.submittals, nil), log))
			})
			r.Route("/rfis", func(r chi.Router) {
				TrackerRouter(r, NewRFIHandler(services.NewRFIService(api.rfis, nil), log))
			})
			r.Route("/action-items", func(r chi.Router) {
				TrackerRouter(r, NewActionItemHandler(services.NewActionItemService(api.actions, nil), log))
			})
			r.Route("/aors", func(r chi.Router) {
				ReferenceRouter(r, NewReferenceHandler(services.NewReferenceService(api.aors, nil), log))
			})
			r.Route("/providers", func(r chi.Router) {
				ReferenceRouter(r, NewReferenceHandler(services.NewReferenceService(api.providers, nil), log))
			})
			r.Route("/eors", func(r chi.Router) {
				EORRouter(r, NewEORHandler(services.NewEORService(api.eors, nil), log))
			})
			r.Route("/dashboard", func(r chi.Router) {
				DashboardRouter(r, NewDashboardHandler(services.NewDashboardService(api.dashboard), log))
			})
		})
	})
	api.router = router
	api.token = api.login(t, testUsername, testPassword)
	return api
}

func (api *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

// do sends body as JSON with "Token <token>" auth when token is non-empty.
func (api *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func (api *testAPI) authed(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return api.do(t, method, path, api.token, body)
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Detail
}

func ptr[T any](v T) *T {
	return &v
}
