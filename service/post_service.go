package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"penquan/model"
	"penquan/upstream"
)

// NoteDelimiter joins selected condition tags into the notes field.
const NoteDelimiter = "；"

// PostClient is the accessor slice for post mutations.
type PostClient interface {
	GetPost(ctx context.Context, token string, id int64) (*model.Post, error)
	GetPosterContact(ctx context.Context, token string, id int64) (*model.Contact, error)
	CreatePost(ctx context.Context, token string, post upstream.NewPost) error
	UpdatePost(ctx context.Context, token string, id int64, patch upstream.PostPatch) error
	RefreshPost(ctx context.Context, token string, id int64) error
	DeletePost(ctx context.Context, token string, id int64) error
}

// PostService owns the post lifecycle: create (with tag folding), edit,
// refresh, delete, and the contact reveal.
type PostService struct {
	api PostClient
	log *zap.Logger
}

func NewPostService(api PostClient, log *zap.Logger) *PostService {
	return &PostService{api: api, log: log}
}

// JoinNotes folds the selected condition tags and the free-text message
// into one notes string with the fixed delimiter.
func JoinNotes(tags []string, free string) string {
	parts := make([]string, 0, len(tags)+1)
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	if free = strings.TrimSpace(free); free != "" {
		parts = append(parts, free)
	}
	return strings.Join(parts, NoteDelimiter)
}

// Create publishes a sell or buy listing for an already-selected book.
func (s *PostService) Create(ctx context.Context, token, isbn string, price float64, tags []string, notes string, isPurchase bool) error {
	err := s.api.CreatePost(ctx, token, upstream.NewPost{
		BookISBN:   isbn,
		Price:      price,
		Notes:      JoinNotes(tags, notes),
		IsPurchase: isPurchase,
	})
	if err != nil {
		return err
	}
	s.log.Info("post created", zap.String("isbn", isbn), zap.Bool("is_purchase", isPurchase))
	return nil
}

// Update changes price and notes; resubmitting identical values is a
// no-op upstream.
func (s *PostService) Update(ctx context.Context, token string, id int64, price float64, notes string) error {
	return s.api.UpdatePost(ctx, token, id, upstream.PostPatch{
		Price: &price,
		Notes: &notes,
	})
}

func (s *PostService) Refresh(ctx context.Context, token string, id int64) error {
	return s.api.RefreshPost(ctx, token, id)
}

func (s *PostService) Delete(ctx context.Context, token string, id int64) error {
	if err := s.api.DeletePost(ctx, token, id); err != nil {
		return err
	}
	s.log.Info("post deleted", zap.Int64("post_id", id))
	return nil
}

func (s *PostService) Get(ctx context.Context, token string, id int64) (*model.Post, error) {
	return s.api.GetPost(ctx, token, id)
}

func (s *PostService) Contact(ctx context.Context, token string, id int64) (*model.Contact, error) {
	return s.api.GetPosterContact(ctx, token, id)
}
