package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penquan/middleware"
	"penquan/model"
	"penquan/service"
	"penquan/web/form"
)

// ProfilePage shows the session user's profile with the masked phone and
// flags the missing fields driving the completeness banner.
func (h *Handlers) ProfilePage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctx := c.Request.Context()

	user, err := h.profile.Get(ctx, sess.Token, sess.UserID)
	if err != nil {
		if h.sessionExpired(c, err) {
			return
		}
		// 拉取失败时退回会话快照，页面保持可用
		snapshot := sess.User
		user = &snapshot
	}

	var majors []model.Major
	if m, err := h.profile.Majors(ctx, sess.Token); err == nil {
		majors = m
	}

	h.render(c, http.StatusOK, "profile.html", gin.H{
		"Title":           "我的",
		"User":            user,
		"Majors":          majors,
		"ConnectionText":  model.ConnectionTypeText(user.ConnectionType),
		"ProfileComplete": user.Complete(),
	})
}

// UpdateProfile patches the submitted fields and returns to the profile.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	var req form.Profile
	if err := c.ShouldBind(&req); err != nil {
		redirectToast(c, "/profile", "请检查填写的资料")
		return
	}

	upd := service.ProfileUpdate{
		Nickname:       req.Nickname,
		Grade:          req.Grade,
		MajorName:      req.Major,
		Connection:     req.Connection,
		ConnectionType: req.ConnectionType,
	}
	sid := middleware.SessionID(c)
	if err := h.profile.Update(c.Request.Context(), sess.Token, sid, sess.UserID, upd); err != nil {
		h.failRedirect(c, err, "/profile")
		return
	}
	redirectToast(c, "/profile", "已保存")
}

// Settings renders the logout / account-deletion page.
func (h *Handlers) Settings(c *gin.Context) {
	h.render(c, http.StatusOK, "settings.html", gin.H{
		"Title": "设置",
	})
}
