package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/handler"
	"github.com/msomdec/timeclock/internal/repository/sqlite"
	"github.com/msomdec/timeclock/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests"

var fallback = domain.Location{Latitude: -23.5505, Longitude: -46.6333, Address: "São Paulo, SP"}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	db         *sqlite.DB
	clock      *testClock
	auth       *service.AuthService
	attendance *service.AttendanceService
	reports    *service.ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clk := &testClock{now: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)}
	attendance := service.NewAttendanceService(db.Entries(), db.Users(), clk, fallback)
	return &testEnv{
		db:         db,
		clock:      clk,
		auth:       service.NewAuthService(db.Users(), testJWTSecret, 4),
		attendance: attendance,
		reports:    service.NewReportService(attendance, db.Users()),
	}
}

// server starts the full route table. limiter may be nil for a generous default.
func (e *testEnv) server(t *testing.T, limiter service.Limiter) *httptest.Server {
	t.Helper()
	if limiter == nil {
		limiter = service.NewTokenBucket(100, 100)
	}
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, e.db, e.auth, e.attendance, e.reports, limiter, false)
	srv := httptest.NewServer(handler.RequestLogger(handler.SecurityHeaders(mux)))
	t.Cleanup(srv.Close)
	return srv
}

// register creates an account and returns it with a session token.
func (e *testEnv) register(t *testing.T, name, email string, typ domain.UserType) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := e.auth.Register(ctx, service.RegisterInput{Name: name, Email: email, Password: "secret123", Type: typ})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := e.auth.Login(ctx, email, "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return user, token
}

// addEmployee creates an employee of boss's company and returns a token.
func (e *testEnv) addEmployee(t *testing.T, boss *domain.User, name, email string) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := e.auth.AddEmployee(ctx, boss, name, email, "secret123")
	if err != nil {
		t.Fatalf("AddEmployee: %v", err)
	}
	token, _, err := e.auth.Login(ctx, email, "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return user, token
}

// do sends a request with an optional JSON body and Bearer token.
func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		t.Fatalf("%s %s: expected %d, got %d (%v)", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
}
