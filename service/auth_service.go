package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"penquan/internal/auth"
	"penquan/internal/metrics"
	"penquan/upstream"
)

// AuthClient is the slice of the upstream API the auth flow needs.
type AuthClient interface {
	SendCode(ctx context.Context, phone string) error
	LoginOrRegister(ctx context.Context, phone, code string) (*upstream.AuthUser, error)
}

// CooldownError 距离下一次可发送验证码还需等待的时间。
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("resend available in %ds", int(e.Remaining.Seconds()))
}

// AuthService drives the phone + SMS-code flow: send a code (one per phone
// per cooldown window), then exchange phone+code for a stored session.
type AuthService struct {
	api      AuthClient
	sessions *auth.SessionManager
	cooldown time.Duration
	log      *zap.Logger
}

func NewAuthService(api AuthClient, sessions *auth.SessionManager, cooldown time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, cooldown: cooldown, log: log}
}

// SendCode triggers an SMS unless the phone is still inside the re-send
// window. A successful send opens a fresh window.
func (s *AuthService) SendCode(ctx context.Context, phone string) error {
	remaining, err := s.sessions.CodeCooldown(ctx, phone)
	if err != nil {
		return err
	}
	if remaining > 0 {
		metrics.IncSMS("cooldown")
		return &CooldownError{Remaining: remaining}
	}
	if err := s.api.SendCode(ctx, phone); err != nil {
		metrics.IncSMS("failed")
		return err
	}
	metrics.IncSMS("sent")
	if err := s.sessions.StartCodeCooldown(ctx, phone, s.cooldown); err != nil {
		s.log.Warn("cooldown not recorded", zap.Error(err))
	}
	return nil
}

// Cooldown exposes the remaining wait so the login page can render it.
func (s *AuthService) Cooldown(ctx context.Context, phone string) time.Duration {
	remaining, err := s.sessions.CodeCooldown(ctx, phone)
	if err != nil {
		return 0
	}
	return remaining
}

// Login verifies the code upstream (registering first-time phones) and
// persists the resulting session. Returns the new session id.
func (s *AuthService) Login(ctx context.Context, phone, code string) (string, *auth.Session, error) {
	user, err := s.api.LoginOrRegister(ctx, phone, code)
	if err != nil {
		metrics.IncLogin("failed")
		return "", nil, err
	}

	sid := uuid.NewString()
	sess := &auth.Session{
		UserID: user.ID,
		Phone:  phone,
		Token:  user.Token,
		User:   user.User,
	}
	if err := s.sessions.Save(ctx, sid, sess); err != nil {
		metrics.IncLogin("session_error")
		return "", nil, err
	}
	metrics.IncLogin("success")
	s.log.Info("login", zap.Int64("user_id", user.ID))
	return sid, sess, nil
}

// Logout drops the stored session; the cookie dies with it.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.sessions.Clear(ctx, sid)
}
