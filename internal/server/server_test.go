package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayasqualli/bookshelf/internal/api/controller"
	"github.com/ayasqualli/bookshelf/internal/api/middleware"
	apirepository "github.com/ayasqualli/bookshelf/internal/api/repository"
	"github.com/ayasqualli/bookshelf/internal/api/service"
	"github.com/ayasqualli/bookshelf/internal/books"
	"github.com/ayasqualli/bookshelf/internal/db"
	"github.com/ayasqualli/bookshelf/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memorySessions is an in-memory stand-in for the redis session store.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]int64
	next     int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]int64{}}
}

func (m *memorySessions) Create(ctx context.Context, userID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	token := fmt.Sprintf("token-%d", m.next)
	m.sessions[token] = userID
	return token, nil
}

func (m *memorySessions) UserID(ctx context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.sessions[token]
	if !ok {
		return 0, repository.ErrNoSession
	}
	return userID, nil
}

func (m *memorySessions) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// fakeCatalog serves a fixed volume set.
type fakeCatalog struct {
	volumes map[string]books.Book
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]books.Book, error) {
	if query == "" {
		return []books.Book{}, nil
	}
	out := []books.Book{}
	for _, b := range f.volumes {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (books.Book, error) {
	b, ok := f.volumes[id]
	if !ok {
		return books.Book{}, books.ErrNotFound
	}
	return b, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	conn, err := db.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.InitializeSchema(conn))
	t.Cleanup(func() { conn.Close() })

	userRepo := apirepository.NewUserRepository(conn)
	favoriteRepo := apirepository.NewFavoriteRepository(conn)
	sessions := newMemorySessions()
	catalog := &fakeCatalog{volumes: map[string]books.Book{
		"abc123": {ID: "abc123", Title: "Dune", Authors: []string{"Frank Herbert"}},
	}}

	userService := service.NewUserService(userRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, userRepo, catalog)
	bookService := service.NewBookService(catalog)

	auth := middleware.NewAuth(sessions, "session_token")
	users := controller.NewUserController(userService, sessions, "session_token", time.Hour)
	bks := controller.NewBookController(bookService)
	favorites := controller.NewFavoriteController(favoriteService)

	return NewServer(auth, users, bks, favorites)
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)

	var env envelope
	// Not every endpoint wraps its body; tolerate a decode failure.
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterLoginFavoriteLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Register alice; the response logs her in.
	w, _ := doJSON(t, srv, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw1234", "confirmation": "pw1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	alice := sessionCookie(t, w)

	// Wrong password is rejected without saying which field was wrong.
	w, env := doJSON(t, srv, http.MethodPost, "/login",
		map[string]string{"username": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	// Favorite a known book.
	w, _ = doJSON(t, srv, http.MethodPost, "/favorite/abc123", nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Profile lists one favorite titled Dune.
	w, env = doJSON(t, srv, http.MethodGet, "/profile", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Username  string `json:"username"`
		Favorites []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &profile))
	require.Equal(t, "alice", profile.Username)
	require.Len(t, profile.Favorites, 1)
	assert.Equal(t, "Dune", profile.Favorites[0].Title)

	// Remove it; the shelf is empty again.
	w, _ = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/remove_favorite/%d", profile.Favorites[0].ID), nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = doJSON(t, srv, http.MethodGet, "/profile", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Extras, &profile))
	assert.Empty(t, profile.Favorites)
}

func TestDuplicateRegistration(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]string{"username": "alice", "password": "pw1234", "confirmation": "pw1234"}
	w, _ := doJSON(t, srv, http.MethodPost, "/register", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, srv, http.MethodPost, "/register", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterConfirmationMismatch(t *testing.T) {
	srv := newTestServer(t)

	w, _ := doJSON(t, srv, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw1", "confirmation": "pw2"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/favorite/abc123"},
		{http.MethodDelete, "/remove_favorite/1"},
		{http.MethodPost, "/search_profile"},
	} {
		w, _ := doJSON(t, srv, tc.method, tc.path, map[string]string{"query": "x"}, nil)
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRemoveFavoriteOfOtherUser(t *testing.T) {
	srv := newTestServer(t)

	w, _ := doJSON(t, srv, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw1234", "confirmation": "pw1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	alice := sessionCookie(t, w)

	w, _ = doJSON(t, srv, http.MethodPost, "/register",
		map[string]string{"username": "bob", "password": "pw1234", "confirmation": "pw1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bob := sessionCookie(t, w)

	w, env := doJSON(t, srv, http.MethodPost, "/favorite/abc123", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	var fav struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &fav))

	// Bob gets the same 404 he'd get for a favorite that doesn't exist.
	w, _ = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/remove_favorite/%d", fav.ID), nil, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchProfileAuthenticated(t *testing.T) {
	srv := newTestServer(t)

	w, _ := doJSON(t, srv, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw1234", "confirmation": "pw1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	alice := sessionCookie(t, w)

	w, _ = doJSON(t, srv, http.MethodPost, "/search_profile", map[string]string{"query": "dune"}, alice)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Items []books.Book `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Dune", result.Items[0].Title)
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newTestServer(t)

	w, _ := doJSON(t, srv, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw1234", "confirmation": "pw1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	alice := sessionCookie(t, w)

	w, _ = doJSON(t, srv, http.MethodPost, "/logout", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, srv, http.MethodGet, "/profile", nil, alice)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHomeAnonymousAndAuthenticated(t *testing.T) {
	srv := newTestServer(t)

	w, env := doJSON(t, srv, http.MethodGet, "/home", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var home struct {
		Favorites []struct {
			Title string `json:"title"`
		} `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &home))
	assert.Empty(t, home.Favorites)

	w, _ = doJSON(t, srv, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw1234", "confirmation": "pw1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	alice := sessionCookie(t, w)

	w, _ = doJSON(t, srv, http.MethodPost, "/favorite/abc123", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, srv, http.MethodGet, "/home", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Extras, &home))
	assert.Len(t, home.Favorites, 1)
}
