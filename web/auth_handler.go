package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"penquan/internal/auth"
	"penquan/service"
	"penquan/upstream"
	"penquan/web/form"
)

// renderLogin writes the auth view. Every render path goes through here
// so the template always has Phone and Cooldown, whatever branch failed;
// the send button state survives error re-renders.
func (h *Handlers) renderLogin(c *gin.Context, code int, phone, errMsg string) {
	var cooldown int
	if phone != "" {
		cooldown = int(h.auth.Cooldown(c.Request.Context(), phone).Seconds())
	}
	data := gin.H{
		"Title":    "手机号登录注册",
		"Phone":    phone,
		"Cooldown": cooldown,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(c, code, "login.html", data)
}

// LoginPage renders the phone + code form. When the phone already has a
// running cooldown its remaining seconds are shown so the page can keep
// the send button disabled.
func (h *Handlers) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, c.Query("phone"), "")
}

// SendCode triggers the SMS and bounces back to the login page. An
// invalid phone never reaches the backend.
func (h *Handlers) SendCode(c *gin.Context) {
	var req form.SendCode
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, c.PostForm("phone"), "请输入正确的11位手机号码")
		return
	}

	err := h.auth.SendCode(c.Request.Context(), req.Phone)
	var cd *service.CooldownError
	switch {
	case err == nil:
		redirectToast(c, "/login?phone="+req.Phone, "验证码已发送")
	case errors.As(err, &cd):
		redirectToast(c, "/login?phone="+req.Phone,
			fmt.Sprintf("发送过于频繁，%d 秒后可重发", int(cd.Remaining.Seconds())))
	default:
		redirectToast(c, "/login?phone="+req.Phone, userMessage(err))
	}
}

// Login exchanges phone + code for a session and lands on the feed.
func (h *Handlers) Login(c *gin.Context) {
	var req form.Login
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, c.PostForm("phone"), "请检查手机号、验证码并勾选使用声明")
		return
	}

	sid, sess, err := h.auth.Login(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		status := http.StatusBadGateway
		msg := userMessage(err)
		if upstream.IsUnauthorized(err) {
			status = http.StatusUnauthorized
			msg = "验证码错误或已过期"
		}
		h.renderLogin(c, status, req.Phone, msg)
		return
	}

	ttl := time.Duration(h.cfg.Session.TTLHours) * time.Hour
	token, err := auth.GenerateSessionToken(h.cfg.Session.Secret, sid, sess.UserID, ttl)
	if err != nil {
		h.log.Error("session token signing failed")
		h.renderLogin(c, http.StatusInternalServerError, req.Phone, "登录失败，请稍后再试")
		return
	}
	c.SetCookie(h.cfg.Session.CookieName, token, int(ttl.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/home")
}

// Declaration is the public usage statement linked from the login page.
func (h *Handlers) Declaration(c *gin.Context) {
	h.render(c, http.StatusOK, "declaration.html", gin.H{
		"Title": "交大喷泉二手书使用声明",
	})
}

// Logout clears the stored session and the cookie.
func (h *Handlers) Logout(c *gin.Context) {
	h.dropSession(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
