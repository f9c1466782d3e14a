// Package web contains the page handlers: server-rendered views over the
// marketplace backend, one handler file per view family.
package web

import (
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"penquan/config"
	"penquan/internal/auth"
	"penquan/middleware"
	"penquan/service"
	"penquan/upstream"
)

// Handlers aggregates every page handler's dependencies.
type Handlers struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions *auth.SessionManager
	auth     *service.AuthService
	listings *service.ListingService
	posts    *service.PostService
	profile  *service.ProfileService
	books    service.BookFinder
	bookAPI  *upstream.BookAPI
}

func NewHandlers(cfg *config.Config, log *zap.Logger, sessions *auth.SessionManager,
	authSvc *service.AuthService, listings *service.ListingService,
	posts *service.PostService, profile *service.ProfileService,
	bookAPI *upstream.BookAPI) *Handlers {
	return &Handlers{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		auth:     authSvc,
		listings: listings,
		posts:    posts,
		profile:  profile,
		books:    bookAPI,
		bookAPI:  bookAPI,
	}
}

// tabBarPaths is the chrome allow-list: the bottom tab bar shows on these
// paths and nowhere else. Visibility is path-derived, never auth-derived.
var tabBarPaths = map[string]bool{
	"/home":         true,
	"/my-purchases": true,
	"/sell":         true,
	"/profile":      true,
}

// NewEngine builds the gin engine with the page templates and the couple
// of helpers pagination links need.
func NewEngine(templateDir string) *gin.Engine {
	r := gin.Default()
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})
	r.LoadHTMLGlob(filepath.Join(templateDir, "*.html"))
	return r
}

// Register wires all routes. Public: login, declaration, metrics. Every
// other page requires a session and redirects to /login without one.
func Register(r *gin.Engine, h *Handlers, rdb *redis.Client) {
	r.Use(middleware.SessionResolver(h.sessions, h.cfg.Session.Secret, h.cfg.Session.CookieName))

	r.GET("/", middleware.RedirectIfAuthed("/home"), func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/login")
	})
	r.GET("/login", middleware.RedirectIfAuthed("/home"), h.LoginPage)
	r.POST("/login/code", middleware.SendCodeRateLimiter(rdb, 10, time.Minute), h.SendCode)
	r.POST("/login", h.Login)
	r.GET("/declaration", h.Declaration)

	authed := r.Group("/", middleware.RequireSession())
	{
		authed.GET("/home", h.Home)
		authed.GET("/search", h.Search)
		authed.GET("/sell", h.SellList)
		authed.GET("/my-purchases", h.PurchaseList)
		authed.GET("/posts/new", h.NewPostPage)
		authed.POST("/posts", h.CreatePost)
		authed.GET("/posts/:id", h.PostDetail)
		authed.GET("/posts/:id/edit", h.EditPostPage)
		authed.POST("/posts/:id", h.UpdatePost)
		authed.POST("/posts/:id/refresh", h.RefreshPost)
		authed.GET("/posts/:id/delete", h.DeleteConfirm)
		authed.POST("/posts/:id/delete", h.DeletePost)
		authed.GET("/profile", h.ProfilePage)
		authed.POST("/profile", h.UpdateProfile)
		authed.GET("/settings", h.Settings)
		authed.POST("/logout", h.Logout)
	}
}

// render fills the fields every template expects and writes the page.
func (h *Handlers) render(c *gin.Context, code int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = middleware.CurrentSession(c)
	data["ShowTabBar"] = tabBarPaths[c.Request.URL.Path]
	data["ActivePath"] = c.Request.URL.Path
	if _, ok := data["Toast"]; !ok {
		if t := c.Query("toast"); t != "" {
			data["Toast"] = t
		}
	}
	c.HTML(code, tmpl, data)
}

// redirectToast redirects with a transient message in the query string.
func redirectToast(c *gin.Context, path, toast string) {
	sep := "?"
	if u, err := url.Parse(path); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	c.Redirect(http.StatusSeeOther, path+sep+"toast="+url.QueryEscape(toast))
}

// failRedirect maps an upstream failure onto the page flow: a 401 tears
// the session down and prompts re-authentication, anything else becomes a
// toast on the page the user came from. No failure is fatal.
func (h *Handlers) failRedirect(c *gin.Context, err error, back string) {
	if upstream.IsUnauthorized(err) {
		h.dropSession(c)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	redirectToast(c, back, userMessage(err))
}

// sessionExpired handles an upstream 401 discovered while rendering a
// page: tear the session down and prompt re-authentication. Returns true
// when the 401 was handled.
func (h *Handlers) sessionExpired(c *gin.Context, err error) bool {
	if !upstream.IsUnauthorized(err) {
		return false
	}
	h.dropSession(c)
	c.Redirect(http.StatusSeeOther, "/login")
	return true
}

func (h *Handlers) dropSession(c *gin.Context) {
	if sid := middleware.SessionID(c); sid != "" {
		_ = h.auth.Logout(c.Request.Context(), sid)
	}
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", false, true)
}

// userMessage converts the error taxonomy into user-facing copy.
func userMessage(err error) string {
	switch {
	case upstream.IsRateLimited(err):
		return "操作太频繁，请稍后再试"
	case upstream.IsNetwork(err):
		return "网络异常，请稍后重试"
	case upstream.IsNotFound(err):
		return "没有找到相关内容"
	default:
		return "服务开小差了，请稍后再试"
	}
}
