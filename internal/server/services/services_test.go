package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/dbx"
	"github.com/healthpod/healthpod/internal/server/models"
	"github.com/healthpod/healthpod/internal/server/repositories/refreshtokens"
	"github.com/healthpod/healthpod/internal/server/repositories/resources"
	"github.com/healthpod/healthpod/internal/server/repositories/users"
)

// in-memory fakes shared by the service tests

type fakeUserRepo struct {
	mu      sync.Mutex
	byName  map[string]*models.User
	lastErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byName: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastErr != nil {
		return nil, r.lastErr
	}
	if _, ok := r.byName[u.Username]; ok {
		return nil, common.ErrConflict
	}
	r.byName[u.Username] = u
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	byHash map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: map[string]*models.RefreshToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, userID string, tokenHash []byte, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHash[string(tokenHash)] = &models.RefreshToken{
		ID: "rt", UserID: userID, TokenHash: tokenHash, ExpiresAt: time.Now().Add(validity),
	}
	return nil
}

func (r *fakeTokenRepo) Find(_ context.Context, tokenHash []byte) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[string(tokenHash)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) Delete(_ context.Context, tokenHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byHash, string(tokenHash))
	return nil
}

type fakeResourceRepo struct {
	mu     sync.Mutex
	byPath map[string]*models.Resource
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{byPath: map[string]*models.Resource{}}
}

func (r *fakeResourceRepo) key(userID, path string) string { return userID + "|" + path }

func (r *fakeResourceRepo) Upsert(_ context.Context, res *models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *res
	r.byPath[r.key(res.UserID, res.Path)] = &cp
	return nil
}

func (r *fakeResourceRepo) Get(_ context.Context, userID, path string) (*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byPath[r.key(userID, path)]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *fakeResourceRepo) Delete(_ context.Context, userID, path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byPath[r.key(userID, path)]
	if !ok {
		return "", common.ErrNotFound
	}
	delete(r.byPath, r.key(userID, path))
	return res.StorageKey, nil
}

func (r *fakeResourceRepo) ListByPrefix(_ context.Context, userID, dir string) ([]*models.ResourceInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ResourceInfo
	prefix := r.key(userID, dir) + "/"
	for k, res := range r.byPath {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, &models.ResourceInfo{Path: res.Path, Size: res.Size, UpdatedAt: res.UpdatedAt})
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	res    *fakeResourceRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:  newFakeUserRepo(),
		tokens: newFakeTokenRepo(),
		res:    newFakeResourceRepo(),
	}
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }
func (m *fakeRepoManager) Resources(dbx.DBTX) resources.Repository         { return m.res }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	delErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (s *fakeBlobStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = data
	return nil
}

func (s *fakeBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.objects, key)
	return nil
}
