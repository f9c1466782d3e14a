package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"penquan/model"
	"penquan/upstream"
)

// Tab selects between the two feed views.
type Tab string

const (
	TabSelling Tab = "selling"
	TabBuying  Tab = "buying"
)

const (
	DefaultPageSize = 10
	// searchPageSize 搜索在一页较大的结果上做本地过滤。
	searchPageSize = 50
)

// PostLister / BookFinder are the accessor slices the orchestrator needs.
type PostLister interface {
	ListPosts(ctx context.Context, token string, query upstream.PostQuery) ([]model.Post, error)
	ListUserPosts(ctx context.Context, token string, userID int64, isPurchase bool) ([]model.Post, error)
}

type BookFinder interface {
	FindByISBN(ctx context.Context, token, isbn string) (*model.Book, error)
}

// ListingQuery is one feed request: tab, optional price range, sort key
// and page window. Ordering is whatever the backend returns for the sort
// key; the orchestrator never re-sorts.
type ListingQuery struct {
	Tab       Tab
	PriceMin  *float64
	PriceMax  *float64
	SortBy    string
	PageIndex int
	PageSize  int
}

// Item is a post enriched with its book. Book stays nil when the lookup
// failed; the post is still shown.
type Item struct {
	Post model.Post
	Book *model.Book
}

// Page is one view-ready slice of the feed. The backend has no
// total-count endpoint, so HasNext is inferred from the page being full.
type Page struct {
	Items     []Item
	PageIndex int
	HasNext   bool
}

// ListingService fetches a page of posts and join-fetches each post's
// book, tolerating per-item failures.
type ListingService struct {
	posts PostLister
	books BookFinder
	log   *zap.Logger
}

func NewListingService(posts PostLister, books BookFinder, log *zap.Logger) *ListingService {
	return &ListingService{posts: posts, books: books, log: log}
}

// Load fetches one feed page. A page-level fetch failure is returned as-is
// (the caller shows one error and an empty list); per-item book failures
// never abort the page.
func (s *ListingService) Load(ctx context.Context, token string, q ListingQuery) (*Page, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	isPurchase := q.Tab == TabBuying
	posts, err := s.posts.ListPosts(ctx, token, upstream.PostQuery{
		OpenOnly:   true,
		IsPurchase: &isPurchase,
		PriceMin:   q.PriceMin,
		PriceMax:   q.PriceMax,
		SortBy:     q.SortBy,
		PageIndex:  q.PageIndex,
		PageSize:   q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:     s.joinBooks(ctx, token, posts),
		PageIndex: q.PageIndex,
		HasNext:   len(posts) == q.PageSize,
	}, nil
}

// UserListings returns the user's own open posts for one tab, enriched.
func (s *ListingService) UserListings(ctx context.Context, token string, userID int64, isPurchase bool) ([]Item, error) {
	posts, err := s.posts.ListUserPosts(ctx, token, userID, isPurchase)
	if err != nil {
		return nil, err
	}
	return s.joinBooks(ctx, token, posts), nil
}

// Search loads one large page for the tab and filters locally on book
// title, author and ISBN.
func (s *ListingService) Search(ctx context.Context, token string, tab Tab, term string) ([]Item, error) {
	page, err := s.Load(ctx, token, ListingQuery{Tab: tab, PageSize: searchPageSize})
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return page.Items, nil
	}
	var out []Item
	for _, item := range page.Items {
		if itemMatches(item, term) {
			out = append(out, item)
		}
	}
	return out, nil
}

func itemMatches(item Item, term string) bool {
	if strings.Contains(strings.ToLower(item.Post.BookISBN), term) {
		return true
	}
	if item.Book == nil {
		return false
	}
	return strings.Contains(strings.ToLower(item.Book.Name), term) ||
		strings.Contains(strings.ToLower(item.Book.Author), term)
}

// joinBooks issues the per-post book lookups concurrently and waits for
// all of them. Result order follows the post order regardless of which
// lookup finishes first. A failed lookup leaves that item's Book nil.
func (s *ListingService) joinBooks(ctx context.Context, token string, posts []model.Post) []Item {
	items := make([]Item, len(posts))
	var wg sync.WaitGroup
	for i := range posts {
		items[i].Post = posts[i]
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			book, err := s.books.FindByISBN(ctx, token, posts[i].BookISBN)
			if err != nil {
				s.log.Warn("book lookup failed",
					zap.String("isbn", posts[i].BookISBN), zap.Error(err))
				return
			}
			items[i].Book = book
		}(i)
	}
	wg.Wait()
	return items
}
