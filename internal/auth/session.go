package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"penquan/model"
)

// Session is the authenticated browsing state: the user snapshot plus the
// upstream bearer token. It lives in Redis under two fixed keys per
// session id, mirroring the pair the original client persisted.
type Session struct {
	UserID int64      `json:"user_id"`
	Phone  string     `json:"phone"`
	Token  string     `json:"-"`
	User   model.User `json:"user"`
}

// SessionManager persists sessions and the sms re-send cooldown in Redis.
// It is injected into the route guard and every handler that needs the
// bearer token, so tests can point it at miniredis.
type SessionManager struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionManager(rdb *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{rdb: rdb, ttl: ttl}
}

func userKey(sid string) string  { return fmt.Sprintf("pq:session:%s:user", sid) }
func tokenKey(sid string) string { return fmt.Sprintf("pq:session:%s:token", sid) }
func smsKey(phone string) string { return fmt.Sprintf("pq:smscd:%s", phone) }

// Save writes the user snapshot and the bearer token.
func (s *SessionManager) Save(ctx context.Context, sid string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, userKey(sid), data, s.ttl).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, tokenKey(sid), sess.Token, s.ttl).Err()
}

// Get loads a session; (nil, nil) means no session is stored. There is no
// client-side expiry logic beyond the key TTL; a token the backend has
// invalidated only shows up as a 401 on the next authenticated call.
func (s *SessionManager) Get(ctx context.Context, sid string) (*Session, error) {
	data, err := s.rdb.Get(ctx, userKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	token, err := s.rdb.Get(ctx, tokenKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		// 半个会话等于没有会话
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.Token = token
	return &sess, nil
}

// Clear removes both keys; used on logout and on upstream 401.
func (s *SessionManager) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, userKey(sid), tokenKey(sid)).Err()
}

// UpdateUser refreshes the stored snapshot after a profile change.
func (s *SessionManager) UpdateUser(ctx context.Context, sid string, user model.User) error {
	sess, err := s.Get(ctx, sid)
	if err != nil || sess == nil {
		return err
	}
	sess.User = user
	return s.Save(ctx, sid, sess)
}

// StartCodeCooldown opens the re-send window for a phone number.
func (s *SessionManager) StartCodeCooldown(ctx context.Context, phone string, ttl time.Duration) error {
	return s.rdb.Set(ctx, smsKey(phone), "1", ttl).Err()
}

// CodeCooldown returns how long the phone still has to wait before the
// next code can be sent; zero means sending is allowed.
func (s *SessionManager) CodeCooldown(ctx context.Context, phone string) (time.Duration, error) {
	ttl, err := s.rdb.TTL(ctx, smsKey(phone)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
