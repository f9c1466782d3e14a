package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"penquan/internal/auth"
	"penquan/model"
	"penquan/upstream"
)

type fakeAuthClient struct {
	sendCalls int
	sendErr   error
	loginErr  error
	user      *upstream.AuthUser
}

func (f *fakeAuthClient) SendCode(ctx context.Context, phone string) error {
	f.sendCalls++
	return f.sendErr
}

func (f *fakeAuthClient) LoginOrRegister(ctx context.Context, phone, code string) (*upstream.AuthUser, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

func newAuthFixture(t *testing.T, api *fakeAuthClient) (*AuthService, *auth.SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := auth.NewSessionManager(rdb, time.Hour)
	return NewAuthService(api, sessions, 60*time.Second, zap.NewNop()), sessions, mr
}

func TestSendCodeStartsCooldown(t *testing.T) {
	api := &fakeAuthClient{}
	svc, _, mr := newAuthFixture(t, api)
	ctx := context.Background()

	require.NoError(t, svc.SendCode(ctx, "13800000000"))
	assert.Equal(t, 1, api.sendCalls)
	assert.Greater(t, svc.Cooldown(ctx, "13800000000"), time.Duration(0))

	// re-send inside the window is refused without touching the backend
	err := svc.SendCode(ctx, "13800000000")
	var ce *CooldownError
	require.ErrorAs(t, err, &ce)
	assert.Greater(t, ce.Remaining, time.Duration(0))
	assert.Equal(t, 1, api.sendCalls)

	mr.FastForward(61 * time.Second)
	require.NoError(t, svc.SendCode(ctx, "13800000000"))
	assert.Equal(t, 2, api.sendCalls)
}

func TestSendCodeBackendFailureLeavesNoCooldown(t *testing.T) {
	api := &fakeAuthClient{sendErr: errors.New("sms gateway down")}
	svc, _, _ := newAuthFixture(t, api)
	ctx := context.Background()

	require.Error(t, svc.SendCode(ctx, "13800000000"))
	assert.Zero(t, svc.Cooldown(ctx, "13800000000"))
}

func TestLoginStoresSession(t *testing.T) {
	api := &fakeAuthClient{user: &upstream.AuthUser{
		User:  model.User{ID: 9, Phone: "13800000000", Nickname: "小明"},
		Token: "tok-abc",
	}}
	svc, sessions, _ := newAuthFixture(t, api)
	ctx := context.Background()

	sid, sess, err := svc.Login(ctx, "13800000000", "1234")
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	assert.Equal(t, int64(9), sess.UserID)
	assert.Equal(t, "tok-abc", sess.Token)

	stored, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok-abc", stored.Token)
	assert.Equal(t, "小明", stored.User.Nickname)
}

func TestLoginUpstreamRejection(t *testing.T) {
	api := &fakeAuthClient{loginErr: &upstream.Error{Kind: upstream.KindUnauthorized, Status: 401}}
	svc, _, _ := newAuthFixture(t, api)

	sid, sess, err := svc.Login(context.Background(), "13800000000", "0000")
	assert.True(t, upstream.IsUnauthorized(err))
	assert.Empty(t, sid)
	assert.Nil(t, sess)
}

func TestLogoutClearsSession(t *testing.T) {
	api := &fakeAuthClient{user: &upstream.AuthUser{User: model.User{ID: 9}, Token: "tok"}}
	svc, sessions, _ := newAuthFixture(t, api)
	ctx := context.Background()

	sid, _, err := svc.Login(ctx, "13800000000", "1234")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, sid))

	stored, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
