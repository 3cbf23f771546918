package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthpod/healthpod/internal/common"
	sc "github.com/healthpod/healthpod/internal/server/config"
)

func testConfig() *sc.Config {
	return &sc.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 24 * time.Hour,
		InlineContentLimit:           64,
	}
}

func newUserService(t *testing.T) (*UserService, *fakeRepoManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := newFakeRepoManager()
	return NewUserService(db, rm, testConfig()), rm, mock
}

func TestUserService_RegisterAndGetSalt(t *testing.T) {
	s, _, _ := newUserService(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", []byte("salt"), []byte("verifier")))

	salt, err := s.GetSalt(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), salt)

	assert.ErrorIs(t, s.Register(ctx, "alice", []byte("s2"), []byte("v2")), common.ErrConflict)
}

func TestUserService_RegisterRejectsEmptyInput(t *testing.T) {
	s, _, _ := newUserService(t)
	assert.Error(t, s.Register(context.Background(), "", []byte("s"), []byte("v")))
	assert.Error(t, s.Register(context.Background(), "alice", nil, []byte("v")))
	assert.Error(t, s.Register(context.Background(), "alice", []byte("s"), nil))
}

func TestUserService_Login(t *testing.T) {
	s, _, _ := newUserService(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", []byte("salt"), []byte("verifier")))

	pair, err := s.Login(ctx, "alice", []byte("verifier"))
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestUserService_LoginWrongVerifier(t *testing.T) {
	s, _, _ := newUserService(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", []byte("salt"), []byte("verifier")))

	_, err := s.Login(ctx, "alice", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUserService_LoginUnknownUser(t *testing.T) {
	s, _, _ := newUserService(t)

	_, err := s.Login(context.Background(), "nobody", []byte("verifier"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUserService_RefreshRotatesToken(t *testing.T) {
	s, rm, mock := newUserService(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", []byte("salt"), []byte("verifier")))
	pair, err := s.Login(ctx, "alice", []byte("verifier"))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	fresh, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// the old token is gone after rotation
	_, err = rm.tokens.Find(ctx, hashToken(pair.RefreshToken))
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUserService_RefreshExpired(t *testing.T) {
	s, rm, _ := newUserService(t)
	ctx := context.Background()

	require.NoError(t, rm.tokens.Create(ctx, "user-1", hashToken("stale"), -time.Minute))

	_, err := s.Refresh(ctx, "stale")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)

	// an expired token is removed on first use
	_, err = rm.tokens.Find(ctx, hashToken("stale"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserService_RefreshUnknownToken(t *testing.T) {
	s, _, _ := newUserService(t)

	_, err := s.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
