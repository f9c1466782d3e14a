package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"penquan/middleware"
	"penquan/model"
	"penquan/upstream"
	"penquan/web/form"
)

// conditionTags are the sell-only multi-select quality tags; the chosen
// ones are folded into the notes field on submit.
var conditionTags = []string{
	"包含课后习题答案",
	"涂抹痕迹严重",
	"缺页",
	"书籍封面缺失",
	"书籍印刷水泡后模糊",
}

// NewPostPage renders the add-listing form. A book must be picked first:
// a name search yields a picklist, an ISBN search auto-selects the unique
// match.
func (h *Handlers) NewPostPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	mode := c.Query("mode")
	if mode != "buy" {
		mode = "sell"
	}
	query := strings.TrimSpace(c.Query("q"))
	selectedISBN := c.Query("selected")

	data := gin.H{
		"Title":      addTitle(mode),
		"Mode":       mode,
		"Query":      query,
		"Conditions": conditionTags,
	}

	ctx := c.Request.Context()
	switch {
	case selectedISBN != "":
		book, err := h.books.FindByISBN(ctx, sess.Token, selectedISBN)
		if err != nil {
			if h.sessionExpired(c, err) {
				return
			}
			data["ErrorMessage"] = userMessage(err)
		} else {
			data["Selected"] = book
		}
	case query != "":
		if looksLikeISBN(query) {
			book, err := h.books.FindByISBN(ctx, sess.Token, query)
			switch {
			case err == nil:
				data["Selected"] = book
			case upstream.IsNotFound(err):
				data["NoMatch"] = true
			default:
				if h.sessionExpired(c, err) {
					return
				}
				data["ErrorMessage"] = userMessage(err)
			}
		} else {
			books, err := h.bookAPI.SearchBooks(ctx, sess.Token, upstream.BookQuery{Name: query})
			switch {
			case err != nil:
				if h.sessionExpired(c, err) {
					return
				}
				data["ErrorMessage"] = userMessage(err)
			case len(books) == 0:
				data["NoMatch"] = true
			default:
				data["Results"] = books
			}
		}
	}
	h.render(c, http.StatusOK, "post_new.html", data)
}

// CreatePost validates locally (book picked, numeric price) before any
// network call, then publishes and returns to the matching list view.
func (h *Handlers) CreatePost(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	var req form.NewPost
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "post_new.html", gin.H{
			"Title":      addTitle(c.PostForm("mode")),
			"Mode":       c.PostForm("mode"),
			"Conditions": conditionTags,
			"Error":      "请先选择书籍并填写正确的价格",
		})
		return
	}
	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil || price < 0 {
		h.render(c, http.StatusBadRequest, "post_new.html", gin.H{
			"Title":      addTitle(req.Mode),
			"Mode":       req.Mode,
			"Conditions": conditionTags,
			"Error":      "价格必须是数字",
		})
		return
	}

	isPurchase := req.Mode == "buy"
	tags := req.Conditions
	if isPurchase {
		// 书籍情况标签只在出售时有意义
		tags = nil
	}
	if err := h.posts.Create(c.Request.Context(), sess.Token, req.BookISBN, price, tags, req.Notes, isPurchase); err != nil {
		h.failRedirect(c, err, "/posts/new?mode="+req.Mode)
		return
	}
	if isPurchase {
		redirectToast(c, "/my-purchases", "发布成功")
		return
	}
	redirectToast(c, "/sell", "发布成功")
}

// PostDetail shows one listing; ?contact=1 additionally reveals the
// poster's contact channel.
func (h *Handlers) PostDetail(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectToast(c, "/home", "没有找到相关内容")
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.Get(ctx, sess.Token, id)
	if err != nil {
		if h.sessionExpired(c, err) {
			return
		}
		redirectToast(c, "/home", userMessage(err))
		return
	}

	data := gin.H{
		"Title": "帖子详情",
		"Post":  post,
		"Mine":  post.PosterUser.ID == sess.UserID,
	}
	if book, err := h.books.FindByISBN(ctx, sess.Token, post.BookISBN); err == nil {
		data["Book"] = book
	}
	if c.Query("contact") == "1" {
		contact, err := h.posts.Contact(ctx, sess.Token, id)
		if err != nil {
			if h.sessionExpired(c, err) {
				return
			}
			data["ErrorMessage"] = userMessage(err)
		} else {
			data["Contact"] = contact
			data["ContactType"] = model.ConnectionTypeText(contact.ConnectionType)
		}
	}
	h.render(c, http.StatusOK, "post_detail.html", data)
}

// EditPostPage renders the price/notes edit form for an owned post.
func (h *Handlers) EditPostPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectToast(c, "/sell", "没有找到相关内容")
		return
	}
	post, err := h.posts.Get(c.Request.Context(), sess.Token, id)
	if err != nil {
		if h.sessionExpired(c, err) {
			return
		}
		redirectToast(c, "/sell", userMessage(err))
		return
	}
	data := gin.H{
		"Title": "修改帖子",
		"Post":  post,
		"Back":  listPathFor(post),
	}
	if book, err := h.books.FindByISBN(c.Request.Context(), sess.Token, post.BookISBN); err == nil {
		data["Book"] = book
	}
	h.render(c, http.StatusOK, "post_edit.html", data)
}

// UpdatePost applies a price/notes change and returns to the list.
func (h *Handlers) UpdatePost(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectToast(c, "/sell", "没有找到相关内容")
		return
	}
	var req form.EditPost
	if err := c.ShouldBind(&req); err != nil {
		redirectToast(c, c.Request.URL.Path+"/edit", "价格必须是数字")
		return
	}
	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil || price < 0 {
		redirectToast(c, c.Request.URL.Path+"/edit", "价格必须是数字")
		return
	}
	back := safeListPath(req.Back)
	if err := h.posts.Update(c.Request.Context(), sess.Token, id, price, req.Notes); err != nil {
		h.failRedirect(c, err, back)
		return
	}
	redirectToast(c, back, "修改成功")
}

// RefreshPost bumps the listing's recency ("擦亮").
func (h *Handlers) RefreshPost(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectToast(c, "/sell", "没有找到相关内容")
		return
	}
	back := safeListPath(c.PostForm("back"))
	if err := h.posts.Refresh(c.Request.Context(), sess.Token, id); err != nil {
		h.failRedirect(c, err, back)
		return
	}
	redirectToast(c, back, "已擦亮")
}

// DeleteConfirm renders the confirmation page. Cancelling navigates back
// without ever issuing the delete.
func (h *Handlers) DeleteConfirm(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectToast(c, "/sell", "没有找到相关内容")
		return
	}
	post, err := h.posts.Get(c.Request.Context(), sess.Token, id)
	if err != nil {
		if h.sessionExpired(c, err) {
			return
		}
		redirectToast(c, "/sell", userMessage(err))
		return
	}
	data := gin.H{
		"Title": "删除帖子",
		"Post":  post,
		"Back":  listPathFor(post),
	}
	if book, err := h.books.FindByISBN(c.Request.Context(), sess.Token, post.BookISBN); err == nil {
		data["Book"] = book
	}
	h.render(c, http.StatusOK, "post_delete.html", data)
}

// DeletePost performs the confirmed delete.
func (h *Handlers) DeletePost(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectToast(c, "/sell", "没有找到相关内容")
		return
	}
	back := safeListPath(c.PostForm("back"))
	if err := h.posts.Delete(c.Request.Context(), sess.Token, id); err != nil {
		h.failRedirect(c, err, back)
		return
	}
	redirectToast(c, back, "已删除")
}

func addTitle(mode string) string {
	if mode == "buy" {
		return "添加求购信息"
	}
	return "添加出售商品"
}

func listPathFor(post *model.Post) string {
	if post.IsPurchase {
		return "/my-purchases"
	}
	return "/sell"
}

// safeListPath only ever sends the user to one of the two list views.
func safeListPath(back string) string {
	if back == "/my-purchases" {
		return back
	}
	return "/sell"
}

// looksLikeISBN: all digits (dashes tolerated), 10 or 13 of them.
func looksLikeISBN(s string) bool {
	digits := strings.ReplaceAll(s, "-", "")
	if len(digits) != 10 && len(digits) != 13 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
