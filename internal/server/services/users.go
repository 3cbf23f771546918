// Package services contains the application services of the pod server:
// account/auth handling and resource CRUD.
package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/dbx"
	"github.com/healthpod/healthpod/internal/server/auth"
	sc "github.com/healthpod/healthpod/internal/server/config"
	"github.com/healthpod/healthpod/internal/server/models"
	"github.com/healthpod/healthpod/internal/server/repositories/repomanager"
)

// TokenPair is the access/refresh token pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService implements registration and the salt/verifier login scheme.
// The server never sees the password: clients derive the master key locally
// and authenticate with its verifier.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewUserService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *UserService {
	return &UserService{db: db, repomanager: repomanager, config: config}
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

// Register creates an account storing the client-supplied salt and verifier.
func (s *UserService) Register(ctx context.Context, username string, salt, verifier []byte) error {
	if username == "" || len(salt) == 0 || len(verifier) == 0 {
		return fmt.Errorf("%w: username, salt and verifier are required", common.ErrInternal)
	}

	userRepo := s.repomanager.Users(s.db)
	_, err := userRepo.Create(ctx, &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Salt:     salt,
		Verifier: verifier,
	})
	return err
}

// GetSalt returns the registration salt for username so the client can
// re-derive its master key before logging in.
func (s *UserService) GetSalt(ctx context.Context, username string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Salt, nil
}

// Login verifies the candidate against the stored verifier and issues a
// token pair. A mismatch maps to common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, username string, verifierCandidate []byte) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare(user.Verifier, verifierCandidate) == 0 {
		return nil, common.ErrUnauthorized
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh validates a refresh token and rotates it, returning a fresh pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	stored, err := s.repomanager.RefreshTokens(s.db).Find(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.repomanager.RefreshTokens(s.db).Delete(ctx, tokenHash)
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokenRepo := s.repomanager.RefreshTokens(tx)

		if err := tokenRepo.Delete(ctx, tokenHash); err != nil {
			return err
		}

		newRefresh, err := common.MakeRandHexString(32)
		if err != nil {
			return err
		}
		if err := tokenRepo.Create(ctx, stored.UserID, hashToken(newRefresh), s.config.RefreshTokenValidityDuration); err != nil {
			return err
		}

		access, err := auth.GenerateToken(stored.UserID, []byte(s.config.SecretKey), s.config.AccessTokenValidityDuration)
		if err != nil {
			return err
		}

		pair = &TokenPair{AccessToken: access, RefreshToken: newRefresh}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) issueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, []byte(s.config.SecretKey), s.config.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.RefreshTokens(s.db).Create(ctx, userID, hashToken(refresh), s.config.RefreshTokenValidityDuration); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
