package console

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mehmetcc/moviedesk/internal/apitest"
	"github.com/mehmetcc/moviedesk/internal/auth"
	"github.com/mehmetcc/moviedesk/internal/catalog"
	"github.com/mehmetcc/moviedesk/internal/config"
	"github.com/mehmetcc/moviedesk/internal/httpx"
	"github.com/mehmetcc/moviedesk/internal/session"
	"github.com/mehmetcc/moviedesk/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type harness struct {
	srv     *apitest.Server
	store   token.Store
	session *session.Controller
	console *Console
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newHarness(t *testing.T, srv *apitest.Server, store token.Store) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	h := &harness{srv: srv, store: store, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}

	client := httpx.NewClient(&config.APIConfig{BaseURL: srv.URL}, httpx.TokenFunc(func() string {
		return h.session.Token()
	}), logger)

	var err error
	h.session, err = session.NewController(store, auth.NewAuthenticationService(client, logger), logger)
	require.NoError(t, err)

	h.console = New(Deps{
		Session:   h.session,
		Movies:    catalog.NewMovieService(client, logger),
		Directors: catalog.NewDirectorService(client, logger),
		Genres:    catalog.NewGenreService(client, logger),
		Ratings:   catalog.NewRatingService(client, logger),
	}, h.out, h.errOut, logger)
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.errOut.Reset()
	return h.console.Run(context.Background(), args)
}

func TestEndToEnd_AdminDeletesOnlyMovie(t *testing.T) {
	srv := apitest.New(t, apitest.WithUser("suedaakca", "12345", apitest.RoleAdmin))
	srv.Seed("Movies", map[string]any{"name": "X", "directorId": 2})
	store := token.NewMemoryStore("")
	h := newHarness(t, srv, store)

	require.Equal(t, 0, h.run("login", "-u", "suedaakca", "-p", "12345"), h.errOut.String())

	stored, _ := store.Load()
	require.NotEmpty(t, stored)
	assert.Equal(t, token.RoleAdmin, token.RoleFromToken(stored))
	assert.Equal(t, session.AdminScreen, h.session.Screen())

	// the admin screen mounts with the movie list
	assert.Contains(t, h.out.String(), "Movies")
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	assert.Regexp(t, `^1\s+X\s+2$`, lines[len(lines)-1])

	require.Equal(t, 0, h.run("movie", "delete", "-id", "1"), h.errOut.String())
	reqs := srv.Requests()
	require.GreaterOrEqual(t, len(reqs), 2)
	del := reqs[len(reqs)-2]
	assert.Equal(t, http.MethodDelete, del.Method)
	assert.Equal(t, "/api/Movies/1", del.Path)
	assert.Equal(t, "Bearer "+stored, del.Authorization)
	assert.Equal(t, "application/json", del.Accept)

	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/api/Movies", last.Path)
	assert.Contains(t, h.out.String(), "No movies found.")
}

func TestConsole_SessionSurvivesRestart(t *testing.T) {
	srv := apitest.New(t, apitest.WithUser("viewer", "12345", apitest.RoleUser))
	store := token.NewMemoryStore("")

	first := newHarness(t, srv, store)
	require.Equal(t, 0, first.run("login", "-u", "viewer", "-p", "12345"))
	assert.Contains(t, first.out.String(), "Movie List")

	second := newHarness(t, srv, store)
	require.Equal(t, 0, second.run("whoami"))
	assert.Contains(t, second.out.String(), "Screen: consumer")
	assert.Contains(t, second.out.String(), "Role: User")

	require.Equal(t, 0, second.run("logout"))
	third := newHarness(t, srv, store)
	require.Equal(t, 0, third.run("whoami"))
	assert.Equal(t, "Not logged in.\n", third.out.String())
}

func TestConsole_ConsumerBrowse(t *testing.T) {
	srv := apitest.New(t, apitest.WithListEnvelope("items"))
	srv.Seed("Movies", map[string]any{"name": "Memento", "releaseDate": "2000-09-05", "totalRevenue": 39723096.0, "directorId": 1})
	srv.Seed("Movies", map[string]any{"name": "Inception", "releaseDate": "2010-07-16T00:00:00", "totalRevenue": 836800000.5})
	srv.Seed("Movies", map[string]any{"name": "Tenet"})

	h := newHarness(t, srv, token.NewMemoryStore(srv.Mint("viewer", apitest.RoleUser)))

	require.Equal(t, 0, h.run("movies", "-sort", "date-desc"), h.errOut.String())
	out := h.out.String()
	assert.Less(t, strings.Index(out, "Inception"), strings.Index(out, "Memento"))
	assert.Less(t, strings.Index(out, "Memento"), strings.Index(out, "Tenet"))
	assert.Contains(t, out, "Release: 2010-07-16")
	assert.Contains(t, out, "Release: —")
	assert.Contains(t, out, "39,723,096")
	assert.Contains(t, out, "836,800,000.5")

	require.Equal(t, 0, h.run("movies", "-q", "ince"))
	assert.Contains(t, h.out.String(), "Inception")
	assert.NotContains(t, h.out.String(), "Memento")

	require.Equal(t, 0, h.run("movies", "-q", "nothing"))
	assert.Contains(t, h.out.String(), "No movies found.")

	assert.Equal(t, 2, h.run("movies", "-sort", "rating"))
}

func TestConsole_Guards(t *testing.T) {
	srv := apitest.New(t)

	t.Run("logged out", func(t *testing.T) {
		h := newHarness(t, srv, token.NewMemoryStore(""))
		assert.Equal(t, 1, h.run("movies"))
		assert.Contains(t, h.errOut.String(), "Not logged in")
		assert.Equal(t, 1, h.run("movie", "list"))
		assert.Empty(t, srv.Requests())
	})

	t.Run("consumer on admin screen", func(t *testing.T) {
		h := newHarness(t, srv, token.NewMemoryStore(srv.Mint("viewer", apitest.RoleUser)))
		assert.Equal(t, 1, h.run("genre", "add", "-name", "Drama"))
		assert.Contains(t, h.errOut.String(), "for admins")
	})

	t.Run("usage", func(t *testing.T) {
		h := newHarness(t, srv, token.NewMemoryStore(srv.Mint("admin", apitest.RoleAdmin)))
		assert.Equal(t, 0, h.run())
		assert.Contains(t, h.out.String(), "usage: moviedesk")
		assert.Equal(t, 2, h.run("frobnicate"))
		assert.Equal(t, 2, h.run("movie"))
		assert.Equal(t, 2, h.run("movie", "rename"))
		assert.Equal(t, 2, h.run("movie", "add", "-release", "tomorrow"))
	})
}

func TestConsole_AdminCRUD(t *testing.T) {
	srv := apitest.New(t)
	h := newHarness(t, srv, token.NewMemoryStore(srv.Mint("admin", apitest.RoleAdmin)))

	require.Equal(t, 0, h.run("movie", "add", "-name", "Dunkirk", "-release", "2017-07-21", "-revenue", "527000000", "-director", "3"), h.errOut.String())
	assert.Contains(t, h.out.String(), "Dunkirk")

	require.Equal(t, 0, h.run("movie", "update", "-id", "1", "-name", "Dunkirk (2017)"), h.errOut.String())
	items := srv.Items("Movies")
	require.Len(t, items, 1)
	assert.Equal(t, "Dunkirk (2017)", items[0]["name"])
	assert.Equal(t, "2017-07-21", items[0]["releaseDate"])
	assert.EqualValues(t, 3, items[0]["directorId"])

	assert.Equal(t, 1, h.run("movie", "update", "-name", "nothing selected"))
	assert.Contains(t, h.errOut.String(), "Select a movie to update.")

	assert.Equal(t, 1, h.run("movie", "delete", "-id", "9"))
	assert.Contains(t, h.errOut.String(), "Movie not found")

	require.Equal(t, 0, h.run("director", "add", "-name", "Christopher Nolan"))
	assert.Contains(t, h.out.String(), "Christopher Nolan")
	require.Equal(t, 0, h.run("director", "update", "-id", "2", "-name", "C. Nolan"))
	assert.Contains(t, h.out.String(), "C. Nolan")
	require.Equal(t, 0, h.run("director", "delete", "-id", "2"))
	assert.Contains(t, h.out.String(), "No directors found.")

	require.Equal(t, 0, h.run("genre", "add", "-name", "War"))
	require.Equal(t, 0, h.run("genre", "list"))
	assert.Contains(t, h.out.String(), "War")

	assert.Equal(t, 1, h.run("genre", "add"))
	assert.Contains(t, h.errOut.String(), "name is required")
}

func TestConsole_RegisterAndRate(t *testing.T) {
	srv := apitest.New(t)
	id := srv.Seed("Movies", map[string]any{"name": "Memento"})
	h := newHarness(t, srv, token.NewMemoryStore(""))

	require.Equal(t, 0, h.run("register", "-u", "newbie", "-p", "12345", "-first", "New"), h.errOut.String())
	assert.Equal(t, "Account created successfully. You can login now.\n", h.out.String())
	assert.Equal(t, session.RegisterScreen, h.session.Screen())

	assert.Equal(t, 1, h.run("register", "-u", "newbie", "-p", "12345"))
	assert.Contains(t, h.errOut.String(), "User already exists")

	require.Equal(t, 0, h.run("register", "-u", "second", "-p", "12345", "-login"), h.errOut.String())
	assert.Equal(t, session.ConsumerScreen, h.session.Screen())

	require.Equal(t, 0, h.run("rate", "-id", "1", "-score", "4"))
	require.Len(t, srv.Ratings(), 1)
	assert.Equal(t, "second", srv.Ratings()[0]["userName"])
	assert.EqualValues(t, id, srv.Ratings()[0]["movieId"])

	assert.Equal(t, 1, h.run("rate", "-id", "1", "-score", "9"))
	assert.Contains(t, h.errOut.String(), "rating must be at most 5")

	require.Equal(t, 0, h.run("register", "-u", "third", "-p", "12345"))
	assert.Contains(t, h.out.String(), "Already signed in")
}

func TestConsole_LoginFailure(t *testing.T) {
	srv := apitest.New(t, apitest.WithUser("suedaakca", "12345", apitest.RoleAdmin))
	h := newHarness(t, srv, token.NewMemoryStore(""))

	assert.Equal(t, 1, h.run("login", "-u", "suedaakca", "-p", "nope!"))
	assert.Equal(t, "Error: Invalid username or password\n", h.errOut.String())
	assert.Equal(t, session.LoginScreen, h.session.Screen())

	srv.FailNext(http.StatusBadGateway, "")
	assert.Equal(t, 1, h.run("login", "-u", "suedaakca", "-p", "12345"))
	assert.Equal(t, "Error: Login failed (502)\n", h.errOut.String())
}

func TestConsole_RateLimited(t *testing.T) {
	srv := apitest.New(t, apitest.WithRateLimit(1))
	h := newHarness(t, srv, token.NewMemoryStore(srv.Mint("viewer", apitest.RoleUser)))

	codes := []int{h.run("movies"), h.run("movies"), h.run("movies")}
	assert.Contains(t, codes, 1)
	assert.Contains(t, h.errOut.String(), "Too Many Requests")
}
