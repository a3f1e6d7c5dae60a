package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/handler"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/middleware"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/service"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/infrastructure/db/memory"
)

const setupToken = "bootstrap-secret"

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testServer struct {
	e     *echo.Echo
	clock *testClock
}

func newTestServer(t *testing.T, rateLimit *middleware.RateLimitConfig) *testServer {
	t.Helper()

	clock := &testClock{t: time.Now()}
	tokens, err := service.NewTokenService("router-test-secret", service.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	store := memory.New()
	log := zerolog.Nop()

	e := NewRouter(Deps{
		Tokens:          tokens,
		Auth:            service.NewAuthService(store.Users(), tokens, bcrypt.MinCost, log),
		Movies:          service.NewMovieService(store.Movies(), nil, log),
		Directors:       service.NewDirectorService(store.Directors(), nil, log),
		Logger:          log,
		AdminSetupToken: setupToken,
		RateLimit:       rateLimit,
		Readiness:       map[string]handler.Pinger{store.Name(): store},
		Metrics:         prometheus.NewRegistry(),
	})

	return &testServer{e: e, clock: clock}
}

type call struct {
	method string
	path   string
	body   string
	token  string
	header map[string]string
}

func (s *testServer) do(c call) *httptest.ResponseRecorder {
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+c.token)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectCode(t *testing.T, step string, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("%s: expected %d, got %d (%s)", step, want, rec.Code, rec.Body.String())
	}
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(call{method: http.MethodPost, path: "/auth/login", body: `{"username":"` + username + `","password":"` + password + `"}`})
	expectCode(t, "login "+username, rec, http.StatusOK)
	token, _ := decode(t, rec)["token"].(string)
	if token == "" {
		t.Fatalf("login %s: empty token", username)
	}
	return token
}

func TestRouter_CatalogFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(call{method: http.MethodPost, path: "/auth/register", body: `{"username":"Alice","password":"secret1"}`})
	expectCode(t, "register", rec, http.StatusCreated)
	if got := decode(t, rec)["username"]; got != "alice" {
		t.Fatalf("register: expected normalised username, got %v", got)
	}

	rec = s.do(call{method: http.MethodPost, path: "/auth/register", body: `{"username":"alice","password":"secret2"}`})
	expectCode(t, "duplicate register", rec, http.StatusConflict)

	// 40 characters but 80 bytes
	rec = s.do(call{method: http.MethodPost, path: "/auth/register", body: `{"username":"zoe","password":"` + strings.Repeat("é", 40) + `"}`})
	expectCode(t, "multibyte password over bcrypt limit", rec, http.StatusBadRequest)

	rec = s.do(call{method: http.MethodPost, path: "/auth/login", body: `{"username":"alice","password":"wrong-pass"}`})
	expectCode(t, "bad password", rec, http.StatusUnauthorized)
	rec = s.do(call{method: http.MethodPost, path: "/auth/login", body: `{"username":"nobody","password":"wrong-pass"}`})
	expectCode(t, "unknown user", rec, http.StatusUnauthorized)

	userToken := s.login(t, "alice", "secret1")

	rec = s.do(call{method: http.MethodPost, path: "/directors", body: `{"name":"Ridley Scott","birthYear":1937}`})
	expectCode(t, "anonymous create", rec, http.StatusUnauthorized)

	rec = s.do(call{method: http.MethodPost, path: "/directors", body: `{"name":"Ridley Scott","birthYear":1937}`, token: "not.a.jwt"})
	expectCode(t, "garbage token", rec, http.StatusForbidden)

	rec = s.do(call{method: http.MethodPost, path: "/directors", body: `{"name":"Ridley Scott","birthYear":1937}`, token: userToken})
	expectCode(t, "create director", rec, http.StatusCreated)
	directorID, _ := decode(t, rec)["id"].(string)

	rec = s.do(call{method: http.MethodPost, path: "/movies", body: `{"title":"Alien","year":1979,"director_id":"` + directorID + `"}`, token: userToken})
	expectCode(t, "create movie", rec, http.StatusCreated)
	movie := decode(t, rec)
	movieID, _ := movie["id"].(string)
	if movie["director_name"] != "Ridley Scott" {
		t.Fatalf("create movie: expected director_name, got %v", movie["director_name"])
	}

	rec = s.do(call{method: http.MethodPost, path: "/movies", body: `{"title":"Ghost","year":1990,"director_id":"999"}`, token: userToken})
	expectCode(t, "unresolved director ref", rec, http.StatusCreated)
	if v, ok := decode(t, rec)["director_name"]; !ok || v != nil {
		t.Fatalf("unresolved director ref: expected null director_name, got %v", v)
	}

	rec = s.do(call{method: http.MethodDelete, path: "/movies/" + movieID})
	expectCode(t, "anonymous delete", rec, http.StatusUnauthorized)
	rec = s.do(call{method: http.MethodPut, path: "/movies/" + movieID, body: `{"title":"Aliens","year":1986,"director_id":"` + directorID + `"}`})
	expectCode(t, "anonymous update", rec, http.StatusUnauthorized)

	rec = s.do(call{method: http.MethodPut, path: "/movies/" + movieID, body: `{"title":"Aliens","year":1986,"director_id":"` + directorID + `"}`, token: userToken})
	expectCode(t, "user update", rec, http.StatusForbidden)
	rec = s.do(call{method: http.MethodDelete, path: "/movies/" + movieID, token: userToken})
	expectCode(t, "user delete", rec, http.StatusForbidden)

	// bootstrap the first admin with the setup token
	rec = s.do(call{method: http.MethodPost, path: "/auth/register-admin", body: `{"username":"root","password":"secret1"}`})
	expectCode(t, "register-admin without credentials", rec, http.StatusUnauthorized)
	rec = s.do(call{method: http.MethodPost, path: "/auth/register-admin", body: `{"username":"root","password":"secret1"}`, token: userToken})
	expectCode(t, "register-admin as user", rec, http.StatusForbidden)
	rec = s.do(call{method: http.MethodPost, path: "/auth/register-admin", body: `{"username":"root","password":"secret1"}`, header: map[string]string{middleware.HeaderSetupToken: setupToken}})
	expectCode(t, "bootstrap admin", rec, http.StatusCreated)
	if got := decode(t, rec)["role"]; got != "admin" {
		t.Fatalf("bootstrap admin: expected role admin, got %v", got)
	}
	rec = s.do(call{method: http.MethodPost, path: "/auth/register-admin", body: `{"username":"root2","password":"secret1"}`, header: map[string]string{middleware.HeaderSetupToken: setupToken}})
	expectCode(t, "second bootstrap", rec, http.StatusForbidden)

	adminToken := s.login(t, "root", "secret1")

	rec = s.do(call{method: http.MethodPost, path: "/auth/register-admin", body: `{"username":"ops","password":"secret1"}`, token: adminToken})
	expectCode(t, "admin creates admin", rec, http.StatusCreated)

	rec = s.do(call{method: http.MethodPut, path: "/movies/" + movieID, body: `{"title":"Aliens","year":1986,"director_id":"` + directorID + `"}`, token: adminToken})
	expectCode(t, "admin update", rec, http.StatusOK)
	if got := decode(t, rec)["title"]; got != "Aliens" {
		t.Fatalf("admin update: expected new title, got %v", got)
	}

	rec = s.do(call{method: http.MethodGet, path: "/movies"})
	expectCode(t, "list movies", rec, http.StatusOK)
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 2 {
		t.Fatalf("list movies: expected two movies, got %s", rec.Body.String())
	}
	if list[0]["id"] != movieID {
		t.Fatalf("list movies: expected ascending id order, got %v first", list[0]["id"])
	}

	rec = s.do(call{method: http.MethodGet, path: "/movies/abc"})
	expectCode(t, "malformed id", rec, http.StatusBadRequest)
	rec = s.do(call{method: http.MethodGet, path: "/movies/424242"})
	expectCode(t, "unknown id", rec, http.StatusNotFound)

	rec = s.do(call{method: http.MethodDelete, path: "/directors/" + directorID, token: adminToken})
	expectCode(t, "delete director", rec, http.StatusNoContent)

	rec = s.do(call{method: http.MethodGet, path: "/movies/" + movieID})
	expectCode(t, "orphaned movie", rec, http.StatusOK)
	if v, ok := decode(t, rec)["director_name"]; !ok || v != nil {
		t.Fatalf("orphaned movie: expected null director_name, got %v", v)
	}

	rec = s.do(call{method: http.MethodDelete, path: "/movies/" + movieID, token: adminToken})
	expectCode(t, "admin delete", rec, http.StatusNoContent)
	if rec.Body.Len() != 0 {
		t.Fatalf("admin delete: expected empty body, got %q", rec.Body.String())
	}
	rec = s.do(call{method: http.MethodDelete, path: "/movies/" + movieID, token: adminToken})
	expectCode(t, "repeat delete", rec, http.StatusNotFound)
}

func TestRouter_ExpiredToken(t *testing.T) {
	s := newTestServer(t, nil)

	expectCode(t, "register", s.do(call{method: http.MethodPost, path: "/auth/register", body: `{"username":"bob","password":"secret1"}`}), http.StatusCreated)
	token := s.login(t, "bob", "secret1")

	body := `{"name":"Agnes Varda","birthYear":1928}`
	expectCode(t, "fresh token", s.do(call{method: http.MethodPost, path: "/directors", body: body, token: token}), http.StatusCreated)

	s.clock.Advance(time.Hour + time.Second)
	expectCode(t, "expired token", s.do(call{method: http.MethodPost, path: "/directors", body: body, token: token}), http.StatusForbidden)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	s := newTestServer(t, &middleware.RateLimitConfig{Requests: 2, Window: time.Minute})

	body := `{"username":"nobody","password":"secret1"}`
	for i := 0; i < 2; i++ {
		expectCode(t, "within budget", s.do(call{method: http.MethodPost, path: "/auth/login", body: body}), http.StatusUnauthorized)
	}

	rec := s.do(call{method: http.MethodPost, path: "/auth/login", body: body})
	expectCode(t, "over budget", rec, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	// catalog reads are not throttled
	expectCode(t, "catalog read", s.do(call{method: http.MethodGet, path: "/movies"}), http.StatusOK)
}

func TestRouter_OperationalRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(call{method: http.MethodGet, path: "/status"})
	expectCode(t, "status", rec, http.StatusOK)
	if got := decode(t, rec); got["ok"] != true || got["service"] != handler.ServiceName {
		t.Fatalf("status: unexpected payload %v", got)
	}

	expectCode(t, "liveness", s.do(call{method: http.MethodGet, path: "/health"}), http.StatusOK)
	expectCode(t, "readiness", s.do(call{method: http.MethodGet, path: "/health/ready"}), http.StatusOK)
	expectCode(t, "metrics", s.do(call{method: http.MethodGet, path: "/metrics"}), http.StatusOK)

	rec = s.do(call{method: http.MethodGet, path: "/no-such-route"})
	expectCode(t, "unknown route", rec, http.StatusNotFound)
	if decode(t, rec)["error"] == nil {
		t.Fatalf("unknown route: expected error envelope")
	}

	rec = s.do(call{method: http.MethodPatch, path: "/movies/1"})
	expectCode(t, "unknown method", rec, http.StatusNotFound)
	if decode(t, rec)["error"] == nil {
		t.Fatalf("unknown method: expected error envelope")
	}
}
