package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// client drives the router through httptest, carrying the session cookie
// between requests the way a browser would.
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newTestRouter(t *testing.T) (*client, *memory.Repository) {
	t.Helper()
	repo := memory.New()

	items := []*entities.Item{
		{ID: 1, Title: "Alpha Station", ReleaseDate: "Jan 5, 2010",
			Vendor:     &entities.Vendor{Name: "Valve"},
			Categories: []entities.Category{{Name: "Action"}}},
		{ID: 2, Title: "Beta Drift", ReleaseDate: "Mar 1, 2020",
			Categories: []entities.Category{{Name: "Action"}, {Name: "Builder"}}},
		{ID: 3, Title: "Gamma Tide", ReleaseDate: "Jul 9, 2015",
			Categories: []entities.Category{{Name: "Builder"}}},
	}
	for _, item := range items {
		require.NoError(t, repo.AddItem(item))
	}

	sessions, err := auth.NewSessionManager(nil, time.Hour, false)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Repo:           repo,
		AuthService:    auth.NewService(repo, bcrypt.MinCost),
		SessionManager: sessions,
		PageSize:       2,
		Version:        "test",
	})
	return &client{t: t, router: router}, repo
}

func (c *client) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (c *client) register(username, password string) {
	c.t.Helper()
	w, _ := c.do(http.MethodPost, "/api/auth/register",
		`{"username": "`+username+`", "password": "`+password+`"}`)
	require.Equal(c.t, http.StatusCreated, w.Code)
}

func TestHealth(t *testing.T) {
	c, _ := newTestRouter(t)

	w, body := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, float64(3), body["items"])
}

func TestItemsList_Pagination(t *testing.T) {
	c, _ := newTestRouter(t)

	w, body := c.do(http.MethodGet, "/api/items", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["pages"])
	assert.Len(t, body["items"], 2)

	_, body = c.do(http.MethodGet, "/api/items?page=2", "")
	assert.Len(t, body["items"], 1)

	// A page past the end clamps to the last page instead of coming back empty.
	_, body = c.do(http.MethodGet, "/api/items?page=99", "")
	assert.Len(t, body["items"], 1)
}

func TestItemsList_Filters(t *testing.T) {
	c, _ := newTestRouter(t)

	_, body := c.do(http.MethodGet, "/api/items?category=Action&category=Builder", "")
	assert.Equal(t, float64(1), body["total"])

	_, body = c.do(http.MethodGet, "/api/items?vendor=Valve", "")
	assert.Equal(t, float64(1), body["total"])

	_, body = c.do(http.MethodGet, "/api/items?search=Gamma", "")
	assert.Equal(t, float64(1), body["total"])

	_, body = c.do(http.MethodGet, "/api/items?search=gamma", "")
	assert.Equal(t, float64(0), body["total"])
}

func TestItemDetail(t *testing.T) {
	c, _ := newTestRouter(t)

	w, body := c.do(http.MethodGet, "/api/items/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	item := body["item"].(map[string]any)
	assert.Equal(t, "Alpha Station", item["title"])
	assert.Equal(t, float64(0), body["average_rating"])

	w, _ = c.do(http.MethodGet, "/api/items/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = c.do(http.MethodGet, "/api/items/not-a-number", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoriesAndVendors(t *testing.T) {
	c, repo := newTestRouter(t)
	require.NoError(t, repo.AddCategory(entities.Category{Name: "Action"}))
	require.NoError(t, repo.AddVendor(entities.Vendor{Name: "Valve"}))

	w, body := c.do(http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["categories"], 1)

	w, body = c.do(http.MethodGet, "/api/vendors", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["vendors"], 1)
}

func TestRegisterAndLogin(t *testing.T) {
	c, _ := newTestRouter(t)

	w, body := c.do(http.MethodPost, "/api/auth/register",
		`{"username": "Alice", "password": "secret-password"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", body["username"])

	w, _ = c.do(http.MethodPost, "/api/auth/register",
		`{"username": "alice", "password": "other-password"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = c.do(http.MethodPost, "/api/auth/register",
		`{"username": "bob", "password": "short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodPost, "/api/auth/login",
		`{"username": "alice", "password": "wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = c.do(http.MethodPost, "/api/auth/login",
		`{"username": "alice", "password": "secret-password"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", body["username"])
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	c, _ := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/wishlist"},
		{http.MethodPut, "/api/wishlist/1"},
		{http.MethodDelete, "/api/wishlist/1"},
		{http.MethodGet, "/api/profile/history"},
		{http.MethodPost, "/api/items/1/reviews"},
	} {
		w, _ := c.do(route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestWishlistFlow(t *testing.T) {
	c, _ := newTestRouter(t)
	c.register("alice", "secret-password")

	w, body := c.do(http.MethodGet, "/api/wishlist", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["items"])

	w, _ = c.do(http.MethodPut, "/api/wishlist/2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, body = c.do(http.MethodGet, "/api/wishlist", "")
	require.Len(t, body["items"], 1)

	// The item page reflects membership for the logged-in account.
	_, body = c.do(http.MethodGet, "/api/items/2", "")
	assert.Equal(t, true, body["in_wishlist"])

	w, _ = c.do(http.MethodPut, "/api/wishlist/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = c.do(http.MethodDelete, "/api/wishlist/2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, body = c.do(http.MethodGet, "/api/wishlist", "")
	assert.Empty(t, body["items"])
}

func TestReviewFlowAndHistory(t *testing.T) {
	c, _ := newTestRouter(t)
	c.register("alice", "secret-password")

	w, body := c.do(http.MethodPost, "/api/items/1/reviews",
		`{"rating": 4, "comment": "solid"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	review := body["review"].(map[string]any)
	assert.Equal(t, float64(4), review["rating"])

	w, _ = c.do(http.MethodPost, "/api/items/1/reviews",
		`{"rating": 9, "comment": "too good"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodPost, "/api/items/999/reviews",
		`{"rating": 3, "comment": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, body = c.do(http.MethodGet, "/api/items/1", "")
	assert.Equal(t, float64(4), body["average_rating"])
	assert.Len(t, body["reviews"], 1)

	_, body = c.do(http.MethodGet, "/api/profile/history", "")
	history := body["history"].([]any)
	require.Len(t, history, 1)
	entry := history[0].(map[string]any)
	assert.Equal(t, "Created a 4/5 review for 'Alpha Station'", entry["entry"])
}

func TestLogoutEndsSession(t *testing.T) {
	c, _ := newTestRouter(t)
	c.register("alice", "secret-password")

	w, _ := c.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = c.do(http.MethodGet, "/api/wishlist", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
