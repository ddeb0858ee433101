package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"technews/internal/db"
	"technews/internal/middleware"
	"technews/internal/models"
	"technews/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter builds the full stack against an in-memory sqlite database.
// The pool is pinned to one connection so every query sees the same memory db.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("technews_session", store))
	r.Use(middleware.LoadUser(gdb))
	router.RegisterRoutes(r, gdb)

	return r, gdb
}

// testClient carries the session cookie between requests like a browser would.
type testClient struct {
	t       *testing.T
	r       *gin.Engine
	cookies []*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *testClient {
	return &testClient{t: t, r: r}
}

func (tc *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range tc.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	tc.r.ServeHTTP(w, req)

	if cs := w.Result().Cookies(); len(cs) > 0 {
		tc.cookies = cs
	}
	return w
}

func (tc *testClient) register(username, email, password string) models.User {
	tc.t.Helper()
	w := tc.do(http.MethodPost, "/api/users", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		tc.t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
	var user models.User
	decodeJSON(tc.t, w, &user)
	return user
}

func (tc *testClient) createPost(title, postURL string) models.Post {
	tc.t.Helper()
	w := tc.do(http.MethodPost, "/api/posts", gin.H{
		"title":    title,
		"post_url": postURL,
	})
	if w.Code != http.StatusOK {
		tc.t.Fatalf("create post returned %d: %s", w.Code, w.Body.String())
	}
	var post models.Post
	decodeJSON(tc.t, w, &post)
	return post
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeJSON(t, w, &body)
	return body.Message
}

func TestUnmatchedRouteReturnsEmpty404(t *testing.T) {
	r, _ := newTestRouter(t)
	tc := newClient(t, r)

	w := tc.do(http.MethodGet, "/api/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}
