package model

const (
	// PostStatusOpen / PostStatusClosed follow the backend's numeric status.
	PostStatusOpen   = 0
	PostStatusClosed = 1
)

// PosterUser 帖子内嵌的发布者快照，由后端随帖子一并返回。
type PosterUser struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Grade    string `json:"grade,omitempty"`
	Major    string `json:"major,omitempty"`
}

// Post 出售/求购帖子。is_purchase 为 true 表示求购，false 表示出售。
type Post struct {
	ID               int64      `json:"id"`
	BookISBN         string     `json:"book_isbn"`
	PosterUser       PosterUser `json:"poster_user"`
	Status           int        `json:"post_status"`
	Price            float64    `json:"price"`
	Notes            string     `json:"notes"`
	LastRefreshAt    string     `json:"last_refresh_at"`
	PosterViewedTime int64      `json:"poster_viewed_times"`
	IsPurchase       bool       `json:"is_purchase"`
}

func (p *Post) Open() bool {
	return p.Status == PostStatusOpen
}

// StatusText renders the listing state the way the pages show it.
func (p *Post) StatusText() string {
	if !p.Open() {
		return "已关闭"
	}
	if p.IsPurchase {
		return "正在求购"
	}
	return "正在出售"
}

// Contact 帖子发布者的站外联系方式，按需单独拉取。
type Contact struct {
	Connection     string `json:"connection"`
	ConnectionType int    `json:"connection_type"`
}
