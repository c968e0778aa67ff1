package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mathieu/apply-pilot/internal/config"
	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/email"
	"github.com/mathieu/apply-pilot/internal/pipeline"
	"github.com/mathieu/apply-pilot/internal/server/ratelimit"
	"github.com/mathieu/apply-pilot/internal/staging"
	"github.com/mathieu/apply-pilot/internal/types"
)

// fakeStore is an in-memory application store. It satisfies both the
// server's ApplicationStore and the pipeline's.
type fakeStore struct {
	apps map[string]*db.Application
}

func newFakeStore(apps ...*db.Application) *fakeStore {
	s := &fakeStore{apps: make(map[string]*db.Application)}
	for _, app := range apps {
		s.apps[app.ID] = app
	}
	return s
}

func (s *fakeStore) CreateApplication(_ context.Context, app *db.Application) (*db.Application, error) {
	stored := *app
	if stored.Status == "" {
		stored.Status = "submitted"
	}
	now := time.Now()
	stored.AppliedDate = now
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.apps[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

// GetApplication returns a copy so handler-side comparisons against the
// stored row stay meaningful.
func (s *fakeStore) GetApplication(_ context.Context, id string) (*db.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	clone := *app
	return &clone, nil
}

func (s *fakeStore) ListApplications(_ context.Context, filter db.ListFilter) ([]db.Application, error) {
	var out []db.Application
	for _, app := range s.apps {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !matchesSearch(app, filter.Search) {
			continue
		}
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id, newStatus string) (*db.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	app.Status = newStatus
	app.UpdatedAt = time.Now()
	clone := *app
	return &clone, nil
}

func (s *fakeStore) UpdateDrafts(_ context.Context, id string, cv *types.CVDraft, cover *types.CoverDraft) (*db.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	app.CVData = cv
	app.CoverData = cover
	app.UpdatedAt = time.Now()
	clone := *app
	return &clone, nil
}

func (s *fakeStore) UpdateDocumentPaths(_ context.Context, id, cvPath, coverPath string) (*db.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	app.CVPath = cvPath
	app.CoverPath = coverPath
	app.UpdatedAt = time.Now()
	clone := *app
	return &clone, nil
}

func (s *fakeStore) DeleteApplication(_ context.Context, id string) (bool, error) {
	if _, ok := s.apps[id]; !ok {
		return false, nil
	}
	delete(s.apps, id)
	return true, nil
}

func matchesSearch(app *db.Application, q string) bool {
	q = strings.ToLower(q)
	for _, field := range []string{app.Company, app.Position, app.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func testProfile() *types.Profile {
	return &types.Profile{
		Identity: types.Identity{
			Name:  "Mathieu Laurent",
			Title: "Data Engineer",
			Email: "mathieu@example.com",
		},
		SummaryTemplates: []types.SummaryTemplate{
			{
				Tag: "data",
				Text: map[string]string{
					"fr": "Ingénieur data avec quatre ans d'expérience.",
					"en": "Data engineer with four years of experience.",
				},
				Tags: []string{"python", "airflow", "sql"},
			},
		},
		Skills: []types.SkillGroup{
			{
				Label: map[string]string{"fr": "Data Engineering", "en": "Data Engineering"},
				Items: []string{"Python", "Airflow", "PostgreSQL"},
				Tags:  []string{"python", "airflow", "postgres"},
			},
		},
		Experiences: []types.Experience{
			{
				Role:   map[string]string{"fr": "Data Engineer", "en": "Data Engineer"},
				Org:    "Globex",
				Period: "2022 - 2025",
				Bullets: map[string][]string{
					"fr": {"Pipelines Airflow en production."},
					"en": {"Production Airflow pipelines."},
				},
				Tags: []string{"python", "airflow"},
			},
		},
	}
}

// testServer bundles a server with the fakes behind it.
type testServer struct {
	*Server
	store   *fakeStore
	staging staging.Store
}

// newTestServer builds a server over in-memory fakes: no database, no
// model client, no LaTeX engine and rate limiting off.
func newTestServer(t *testing.T, apps ...*db.Application) *testServer {
	t.Helper()

	store := newFakeStore(apps...)
	stage := staging.NewMemoryStore(time.Hour)
	p := pipeline.New(pipeline.Options{
		Profile: testProfile(),
		Store:   store,
		Staging: stage,
	})

	jwtService := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 1,
	})
	passwords := &config.PasswordConfig{BcryptCost: bcrypt.MinCost}
	hash, err := passwords.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	passwords.AdminHash = hash

	s := &Server{
		store:       store,
		pipeline:    p,
		analyzer:    email.NewAnalyzer(nil),
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
		jwtService:  jwtService,
		authHandler: NewAuthHandler(passwords, jwtService),
	}
	return &testServer{Server: s, store: store, staging: stage}
}

// TestHealthEndpoint tests the /api/health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp["status"])
	}
}

// TestCORSMiddleware tests CORS headers are set
func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t)

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header Access-Control-Allow-Origin: *")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Error("expected PATCH in Access-Control-Allow-Methods")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Error("expected Authorization in Access-Control-Allow-Headers")
	}
}

// TestCORSMiddleware_OPTIONS tests OPTIONS preflight request
func TestCORSMiddleware_OPTIONS(t *testing.T) {
	s := newTestServer(t)

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("should not reach here")) //nolint:errcheck
	}))

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for OPTIONS, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Error("OPTIONS response should have empty body")
	}
}

// TestLoggingMiddleware tests that logging middleware passes through
func TestLoggingMiddleware(t *testing.T) {
	s := newTestServer(t)

	called := false
	handler := s.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("logging middleware should call next handler")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected status to pass through unchanged, got %d", w.Code)
	}
}

// TestRateLimitMiddleware tests that the limiter blocks past the limit
func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    2,
		DefaultWindow:   time.Minute,
		CleanupInterval: time.Minute,
	})
	defer s.rateLimiter.Stop()

	handler := s.withRateLimit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.0.2.1:4242"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") == "" {
			t.Error("expected X-RateLimit-Limit header on allowed request")
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.1:4242"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on denied request")
	}
	if !strings.Contains(w.Body.String(), "rate_limit_exceeded") {
		t.Error("expected rate_limit_exceeded in response body")
	}
}

// TestExtractClientID tests client IP extraction from RemoteAddr
func TestExtractClientID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	if got := s.extractClientID(req); got != "192.0.2.7" {
		t.Errorf("expected '192.0.2.7', got '%s'", got)
	}

	req.RemoteAddr = "no-port-here"
	if got := s.extractClientID(req); got != "no-port-here" {
		t.Errorf("expected fallback to RemoteAddr, got '%s'", got)
	}
}

// TestJSONResponse tests jsonResponse helper
func TestJSONResponse(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.jsonResponse(w, http.StatusOK, map[string]string{"key": "value"})

	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("expected Content-Type: application/json")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp["key"] != "value" {
		t.Errorf("expected key='value', got '%s'", resp["key"])
	}
}

// TestErrorResponse tests errorResponse helper
func TestErrorResponse(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.errorResponse(w, http.StatusBadRequest, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp["error"] != "test error" {
		t.Errorf("expected error='test error', got '%s'", resp["error"])
	}
}
