package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penquan/model"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionManager(rdb, time.Hour), mr
}

func TestSessionSaveGet(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	sess := &Session{
		UserID: 7,
		Phone:  "13800000000",
		Token:  "bearer-token",
		User:   model.User{ID: 7, Nickname: "小明"},
	}
	require.NoError(t, sm.Save(ctx, "sid-1", sess))

	got, err := sm.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "13800000000", got.Phone)
	assert.Equal(t, "bearer-token", got.Token)
	assert.Equal(t, "小明", got.User.Nickname)
}

func TestSessionGetMissing(t *testing.T) {
	sm, _ := newTestManager(t)

	got, err := sm.Get(context.Background(), "no-such-sid")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionGetHalfStored(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, sm.Save(ctx, "sid-2", &Session{UserID: 1, Token: "tok"}))
	mr.Del("pq:session:sid-2:token")

	got, err := sm.Get(ctx, "sid-2")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionClear(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, sm.Save(ctx, "sid-3", &Session{UserID: 2, Token: "tok"}))
	require.NoError(t, sm.Clear(ctx, "sid-3"))

	got, err := sm.Get(ctx, "sid-3")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionUpdateUser(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, sm.Save(ctx, "sid-4", &Session{UserID: 3, Token: "tok", User: model.User{ID: 3}}))
	require.NoError(t, sm.UpdateUser(ctx, "sid-4", model.User{ID: 3, Nickname: "改名了"}))

	got, err := sm.Get(ctx, "sid-4")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "改名了", got.User.Nickname)
	assert.Equal(t, "tok", got.Token)
}

func TestCodeCooldown(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	remaining, err := sm.CodeCooldown(ctx, "13800000000")
	require.NoError(t, err)
	assert.Zero(t, remaining)

	require.NoError(t, sm.StartCodeCooldown(ctx, "13800000000", 60*time.Second))
	remaining, err = sm.CodeCooldown(ctx, "13800000000")
	require.NoError(t, err)
	assert.True(t, remaining > 0 && remaining <= 60*time.Second)

	mr.FastForward(61 * time.Second)
	remaining, err = sm.CodeCooldown(ctx, "13800000000")
	require.NoError(t, err)
	assert.Zero(t, remaining)
}
