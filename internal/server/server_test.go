package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/config"
	"github.com/mg3/promag-api/internal/mq"
	"github.com/mg3/promag-api/internal/storage"
)

func newTestRouter(t *testing.T, cfg config.Config) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return newRouter(cfg, zap.NewNop(), dependencies{db: sqlDB}), mock
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthUnderPrefix(t *testing.T) {
	router, _ := newTestRouter(t, config.Config{APIPrefix: "/api/"})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "promag-backend", body["service"])
	assert.NotEmpty(t, body["timestamp"])

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, mock := newTestRouter(t, config.Config{APIPrefix: "/api"})

	paths := []string{
		"/api/projects",
		"/api/submittals",
		"/api/rfis",
		"/api/action-items",
		"/api/aors",
		"/api/providers",
		"/api/subcontractors",
		"/api/eors",
		"/api/dashboard/summary",
		"/api/auth/me",
		"/api/auth/users",
	}
	for _, path := range paths {
		rec := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, rec.Body.String(), path)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingUsersTableSurfacesDistinctError(t *testing.T) {
	router, mock := newTestRouter(t, config.Config{APIPrefix: "/api"})
	mock.ExpectQuery(`FROM app_users WHERE api_token = \$1`).
		WithArgs("abc").
		WillReturnError(&pq.Error{Code: "42P01", Message: `relation "app_users" does not exist`})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := serve(router, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Users table is missing. Run migrations first."}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		setting string
		origin  string
		allowed string
	}{
		{"allow all by default", "", "https://app.example.org", "*"},
		{"explicit star", "*", "https://app.example.org", "*"},
		{"exact match", "https://a.test, https://b.test", "https://b.test", "https://b.test"},
		{"wildcard segment", "https://*.example.com", "https://ops.example.com", "https://ops.example.com"},
		{"not listed", "https://a.test", "https://evil.test", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, config.Config{APIPrefix: "/api", CORSOrigin: tt.setting})

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := serve(router, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.allowed, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, config.Config{APIPrefix: "/api", CORSOrigin: "https://app.test"})

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "https://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := serve(router, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "https://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestAPIPrefix(t *testing.T) {
	assert.Equal(t, "/api", apiPrefix("/api"))
	assert.Equal(t, "/api", apiPrefix("api/"))
	assert.Equal(t, "/v2/api", apiPrefix(" /v2/api/ "))
}

type fakeObjectStorage struct {
	closed bool
}

func (f *fakeObjectStorage) EnsureBucket(context.Context) error { return nil }

func (f *fakeObjectStorage) Put(context.Context, string, io.Reader, int64, string) error {
	return nil
}

func (f *fakeObjectStorage) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, storage.ErrObjectNotFound
}

func (f *fakeObjectStorage) Delete(context.Context, string) error { return nil }

func (f *fakeObjectStorage) Bucket() string { return "covers" }

func (f *fakeObjectStorage) Close() error {
	f.closed = true
	return nil
}

func stubBackends(t *testing.T, conn *sql.DB, images storage.ObjectStorage, eventsErr error) {
	t.Helper()
	origDB, origStorage, origEvents := openDB, openStorage, openEvents
	t.Cleanup(func() {
		openDB, openStorage, openEvents = origDB, origStorage, origEvents
	})

	openDB = func(context.Context, config.Config) (*sql.DB, error) { return conn, nil }
	openStorage = func(context.Context, config.StorageConfig) (storage.ObjectStorage, error) { return images, nil }
	openEvents = func(context.Context, config.EventsConfig) (mq.Backend, error) { return nil, eventsErr }
}

func TestNewReleasesResourcesWhenEventsFail(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	images := &fakeObjectStorage{}
	stubBackends(t, sqlDB, images, errors.New("dial tcp: connection refused"))

	_, err = New(context.Background(), config.Config{}, zap.NewNop())
	require.ErrorContains(t, err, "open events backend")
	assert.True(t, images.closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShutdownReleasesResources(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	images := &fakeObjectStorage{}
	stubBackends(t, sqlDB, images, nil)

	srv, err := New(context.Background(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, srv.Shutdown(context.Background()))

	assert.True(t, images.closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
