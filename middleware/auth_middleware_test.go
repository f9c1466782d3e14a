package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penquan/internal/auth"
	"penquan/model"
)

const (
	testSecret = "test-secret"
	testCookie = "pq_session"
)

func newGuardedRouter(t *testing.T) (*gin.Engine, *auth.SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := auth.NewSessionManager(rdb, time.Hour)

	r := gin.New()
	r.Use(SessionResolver(sessions, testSecret, testCookie))
	r.GET("/login", RedirectIfAuthed("/home"), func(c *gin.Context) {
		c.String(http.StatusOK, "login page")
	})
	authed := r.Group("/", RequireSession())
	authed.GET("/home", func(c *gin.Context) {
		sess := CurrentSession(c)
		c.String(http.StatusOK, "hello "+sess.User.Nickname)
	})
	return r, sessions
}

func sessionCookie(t *testing.T, sessions *auth.SessionManager, sid string) *http.Cookie {
	t.Helper()
	require.NoError(t, sessions.Save(t.Context(), sid, &auth.Session{
		UserID: 9,
		Token:  "tok",
		User:   model.User{ID: 9, Nickname: "小明"},
	}))
	token, err := auth.GenerateSessionToken(testSecret, sid, 9, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: token}
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
	r, _ := newGuardedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireSessionPassesAuthed(t *testing.T) {
	r, sessions := newGuardedRouter(t)
	cookie := sessionCookie(t, sessions, "sid-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "小明")
}

func TestRedirectIfAuthedBouncesToHome(t *testing.T) {
	r, sessions := newGuardedRouter(t)
	cookie := sessionCookie(t, sessions, "sid-2")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))
}

func TestRedirectIfAuthedLetsAnonymousThrough(t *testing.T) {
	r, _ := newGuardedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login page")
}

func TestResolverIgnoresTamperedCookie(t *testing.T) {
	r, sessions := newGuardedRouter(t)

	// cookie signed with a different secret
	require.NoError(t, sessions.Save(t.Context(), "sid-3", &auth.Session{UserID: 9, Token: "tok"}))
	token, err := auth.GenerateSessionToken("wrong-secret", "sid-3", 9, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestResolverTreatsClearedSessionAsAnonymous(t *testing.T) {
	r, sessions := newGuardedRouter(t)
	cookie := sessionCookie(t, sessions, "sid-4")
	require.NoError(t, sessions.Clear(t.Context(), "sid-4"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
