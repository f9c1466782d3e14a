package upstream

import (
	"context"
	"net/url"

	"penquan/model"
)

// BookAPI 书目查询。书目是只读参考数据，按书名或 ISBN 检索。
type BookAPI struct {
	c *Client
}

func NewBookAPI(c *Client) *BookAPI {
	return &BookAPI{c: c}
}

// BookQuery is either a fuzzy name search or an exact ISBN lookup.
type BookQuery struct {
	Name string
	ISBN string
}

func (b *BookAPI) SearchBooks(ctx context.Context, token string, query BookQuery) ([]model.Book, error) {
	q := url.Values{}
	if query.Name != "" {
		q.Set("name", query.Name)
	}
	if query.ISBN != "" {
		q.Set("isbn", query.ISBN)
	}
	var env struct {
		Data []model.Book `json:"data"`
	}
	if err := b.c.get(ctx, "/books", token, q, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// FindByISBN returns the unique book for an ISBN, or a not-found error.
func (b *BookAPI) FindByISBN(ctx context.Context, token, isbn string) (*model.Book, error) {
	books, err := b.SearchBooks(ctx, token, BookQuery{ISBN: isbn})
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, &Error{Kind: KindNotFound, Message: "book not found"}
	}
	return &books[0], nil
}
