// Package apitest runs an in-process stand-in for the movie catalog API so
// the client packages can be tested end to end.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"moul.io/chizap"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"

	NamespacedRoleClaim = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

// Recorded is one request the server saw.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	Accept        string
	ContentType   string
	Body          string
}

type account struct {
	password string
	role     string
	profile  map[string]any
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	secret    []byte
	accounts  map[string]account
	resources map[string]map[int64]map[string]any
	ratings   []map[string]any
	nextID    int64
	requests  []Recorded
	failNext  []failure

	namespacedRole bool
	bearerPrefix   bool
	listEnvelope   string
	rateLimit      int
	logger         *zap.Logger
}

type Option func(*Server)

// WithUser registers an account up front.
func WithUser(userName, password, role string) Option {
	return func(s *Server) {
		s.accounts[userName] = account{password: password, role: role}
	}
}

// WithNamespacedRole puts the role under the long URI claim instead of "role".
func WithNamespacedRole() Option {
	return func(s *Server) { s.namespacedRole = true }
}

// WithBearerPrefix makes /api/Token answer with "Bearer <jwt>".
func WithBearerPrefix() Option {
	return func(s *Server) { s.bearerPrefix = true }
}

// WithListEnvelope wraps list responses as {"<key>": [...]}.
func WithListEnvelope(key string) Option {
	return func(s *Server) { s.listEnvelope = key }
}

// WithRateLimit caps requests per client IP per second.
func WithRateLimit(n int) Option {
	return func(s *Server) { s.rateLimit = n }
}

var resourceNames = []string{"Movies", "Directors", "Genres"}

func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		secret:    []byte("apitest-signing-key"),
		accounts:  map[string]account{},
		resources: map[string]map[int64]map[string]any{},
		logger:    zaptest.NewLogger(t),
	}
	for _, name := range resourceNames {
		s.resources[name] = map[int64]map[string]any{}
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chizap.New(s.logger, &chizap.Opts{
		WithReferer:   false,
		WithUserAgent: false,
	}))
	if s.rateLimit > 0 {
		r.Use(httprate.LimitByIP(s.rateLimit, time.Second))
	}
	r.Use(s.record)

	r.Post("/api/Token", s.issueToken)
	r.Post("/api/auth/register", s.register)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		for _, name := range resourceNames {
			r.Route("/api/"+name, func(r chi.Router) {
				r.Get("/", s.list(name))
				r.With(s.adminOnly).Post("/", s.create(name))
				r.With(s.adminOnly).Put("/", s.update(name))
				r.With(s.adminOnly).Delete("/{id}", s.remove(name))
			})
		}
		r.Post("/api/Users/rate-movie", s.rate)
	})
	return r
}

// FailNext makes the next request answer status with body, before routing.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = append(s.failNext, failure{status: status, body: body})
}

// Requests returns a copy of everything recorded so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// LastRequest returns the most recent request, or the zero value.
func (s *Server) LastRequest() Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}
	}
	return s.requests[len(s.requests)-1]
}

// Seed stores item under resource and returns its id.
func (s *Server) Seed(resource string, item map[string]any) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := cloneItem(item)
	stored["id"] = s.nextID
	s.resources[resource][s.nextID] = stored
	return s.nextID
}

// Items returns the stored items of resource ordered by id.
func (s *Server) Items(resource string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(resource)
}

// Ratings returns the ratings submitted so far.
func (s *Server) Ratings() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.ratings...)
}

// Account reports the stored registration profile of userName.
func (s *Server) Account(userName string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userName]
	return a.profile, ok
}

// Mint signs a credential for userName with role the way /api/Token does.
func (s *Server) Mint(userName, role string) string {
	claims := jwt.MapClaims{
		"sub": userName,
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	if s.namespacedRole {
		claims[NamespacedRoleClaim] = role
	} else {
		claims["role"] = role
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic("apitest: sign token: " + err.Error())
	}
	return signed
}

func (s *Server) sorted(resource string) []map[string]any {
	items := make([]map[string]any, 0, len(s.resources[resource]))
	for _, it := range s.resources[resource] {
		items = append(items, cloneItem(it))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i]["id"].(int64) < items[j]["id"].(int64)
	})
	return items
}

func cloneItem(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
