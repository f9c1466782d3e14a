package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penquan/middleware"
)

// SellList shows the session user's open sell posts.
func (h *Handlers) SellList(c *gin.Context) {
	h.userList(c, false, gin.H{
		"Title":     "我的出售",
		"ListTitle": "正在出售",
		"AddText":   "添加出售",
		"AddLink":   "/posts/new?mode=sell",
		"BackPath":  "/sell",
	})
}

// PurchaseList shows the session user's open buy posts.
func (h *Handlers) PurchaseList(c *gin.Context) {
	h.userList(c, true, gin.H{
		"Title":     "我的求购",
		"ListTitle": "正在求购",
		"AddText":   "添加求购",
		"AddLink":   "/posts/new?mode=buy",
		"BackPath":  "/my-purchases",
	})
}

func (h *Handlers) userList(c *gin.Context, isPurchase bool, data gin.H) {
	sess := middleware.CurrentSession(c)
	items, err := h.listings.UserListings(c.Request.Context(), sess.Token, sess.UserID, isPurchase)
	if err != nil {
		if h.sessionExpired(c, err) {
			return
		}
		data["ErrorMessage"] = userMessage(err)
	} else {
		data["Items"] = items
	}
	h.render(c, http.StatusOK, "mylist.html", data)
}
