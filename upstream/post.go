package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"penquan/model"
)

// PostAPI 帖子资源。创建/修改/刷新/删除都要求携带登录态。
type PostAPI struct {
	c *Client
}

func NewPostAPI(c *Client) *PostAPI {
	return &PostAPI{c: c}
}

// PostQuery mirrors the /posts filter params. Zero values are omitted.
type PostQuery struct {
	ID               int64
	BookISBN         string
	PosterUserID     int64
	IsPurchase       *bool
	OpenOnly         bool
	PriceMin         *float64
	PriceMax         *float64
	PageIndex        int
	PageSize         int
	LastRefreshAfter string
	SortBy           string
}

func (q PostQuery) values() url.Values {
	v := url.Values{}
	if q.ID != 0 {
		v.Set("id", strconv.FormatInt(q.ID, 10))
	}
	if q.BookISBN != "" {
		v.Set("book_isbn", q.BookISBN)
	}
	if q.PosterUserID != 0 {
		v.Set("poster_user_id", strconv.FormatInt(q.PosterUserID, 10))
	}
	if q.IsPurchase != nil {
		v.Set("is_purchase", strconv.FormatBool(*q.IsPurchase))
	}
	if q.OpenOnly {
		v.Set("open_only", "true")
	}
	if q.PriceMin != nil {
		v.Set("price_min", strconv.FormatFloat(*q.PriceMin, 'f', -1, 64))
	}
	if q.PriceMax != nil {
		v.Set("price_max", strconv.FormatFloat(*q.PriceMax, 'f', -1, 64))
	}
	if q.PageIndex > 0 {
		v.Set("page_index", strconv.Itoa(q.PageIndex))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.LastRefreshAfter != "" {
		v.Set("last_refresh_after", q.LastRefreshAfter)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	return v
}

// NewPost is the creation body; notes already carry any condition tags.
type NewPost struct {
	BookISBN   string  `json:"book_isbn"`
	Price      float64 `json:"price"`
	Notes      string  `json:"notes"`
	IsPurchase bool    `json:"is_purchase"`
}

// PostPatch updates price and/or notes; nothing else is owner-mutable.
type PostPatch struct {
	Price *float64 `json:"price,omitempty"`
	Notes *string  `json:"notes,omitempty"`
}

func (p *PostAPI) ListPosts(ctx context.Context, token string, query PostQuery) ([]model.Post, error) {
	var env struct {
		Data []model.Post `json:"data"`
	}
	if err := p.c.get(ctx, "/posts", token, query.values(), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (p *PostAPI) GetPost(ctx context.Context, token string, id int64) (*model.Post, error) {
	var env struct {
		Data model.Post `json:"data"`
	}
	if err := p.c.get(ctx, fmt.Sprintf("/posts/%d", id), token, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetPosterContact fetches the poster's off-platform contact. A separate
// call so the backend can count contact reveals.
func (p *PostAPI) GetPosterContact(ctx context.Context, token string, id int64) (*model.Contact, error) {
	q := url.Values{}
	q.Set("contact", "true")
	var env struct {
		Data model.Contact `json:"data"`
	}
	if err := p.c.get(ctx, fmt.Sprintf("/posts/%d", id), token, q, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (p *PostAPI) CreatePost(ctx context.Context, token string, post NewPost) error {
	var env struct {
		Message string `json:"message"`
	}
	return p.c.sendJSON(ctx, http.MethodPost, "/posts", token, nil, post, &env)
}

func (p *PostAPI) UpdatePost(ctx context.Context, token string, id int64, patch PostPatch) error {
	var env struct {
		Message string `json:"message"`
	}
	return p.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), token, nil, patch, &env)
}

// RefreshPost bumps last_refresh_at so the listing ranks as recent again.
func (p *PostAPI) RefreshPost(ctx context.Context, token string, id int64) error {
	q := url.Values{}
	q.Set("refresh", "true")
	var env struct {
		Message string `json:"message"`
	}
	return p.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), token, q, nil, &env)
}

func (p *PostAPI) DeletePost(ctx context.Context, token string, id int64) error {
	var env struct {
		Message string `json:"message"`
	}
	return p.c.delete(ctx, fmt.Sprintf("/posts/%d", id), token, &env)
}

// ListUserPosts returns the user's own open listings for one tab.
func (p *PostAPI) ListUserPosts(ctx context.Context, token string, userID int64, isPurchase bool) ([]model.Post, error) {
	return p.ListPosts(ctx, token, PostQuery{
		PosterUserID: userID,
		OpenOnly:     true,
		IsPurchase:   &isPurchase,
	})
}
