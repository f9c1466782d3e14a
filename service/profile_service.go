package service

import (
	"context"

	"go.uber.org/zap"

	"penquan/internal/auth"
	"penquan/model"
	"penquan/upstream"
)

// UserClient is the accessor slice the profile page needs.
type UserClient interface {
	GetUser(ctx context.Context, token string, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, token string, id int64, patch upstream.UserPatch) error
	ListMajors(ctx context.Context, token string) ([]model.Major, error)
	FindMajorByName(ctx context.Context, token, name string) (*model.Major, error)
}

// ProfileUpdate carries the profile form; empty fields are left untouched.
// Major arrives as a name and is resolved to its id here.
type ProfileUpdate struct {
	Nickname       string
	Grade          string
	MajorName      string
	Connection     string
	ConnectionType int
}

// ProfileService reads and updates the session user's profile and keeps
// the stored session snapshot in sync.
type ProfileService struct {
	api      UserClient
	sessions *auth.SessionManager
	log      *zap.Logger
}

func NewProfileService(api UserClient, sessions *auth.SessionManager, log *zap.Logger) *ProfileService {
	return &ProfileService{api: api, sessions: sessions, log: log}
}

func (s *ProfileService) Get(ctx context.Context, token string, id int64) (*model.User, error) {
	return s.api.GetUser(ctx, token, id)
}

func (s *ProfileService) Majors(ctx context.Context, token string) ([]model.Major, error) {
	return s.api.ListMajors(ctx, token)
}

// Update patches the changed fields upstream, then refreshes the session
// snapshot so the completeness banner reacts on the next page load.
func (s *ProfileService) Update(ctx context.Context, token, sid string, id int64, upd ProfileUpdate) error {
	patch := upstream.UserPatch{}
	if upd.Nickname != "" {
		patch.Nickname = &upd.Nickname
	}
	if upd.Grade != "" {
		patch.Grade = &upd.Grade
	}
	if upd.Connection != "" {
		patch.Connection = &upd.Connection
	}
	if upd.ConnectionType != 0 {
		patch.ConnectionType = &upd.ConnectionType
	}
	if upd.MajorName != "" {
		major, err := s.api.FindMajorByName(ctx, token, upd.MajorName)
		if err != nil {
			return err
		}
		patch.MajorID = &major.ID
	}

	if err := s.api.UpdateUser(ctx, token, id, patch); err != nil {
		return err
	}

	user, err := s.api.GetUser(ctx, token, id)
	if err != nil || user == nil {
		// 快照过期没关系，下次登录会重建
		s.log.Warn("session snapshot not refreshed", zap.Error(err))
		return nil
	}
	if err := s.sessions.UpdateUser(ctx, sid, *user); err != nil {
		s.log.Warn("session snapshot not refreshed", zap.Error(err))
	}
	return nil
}
