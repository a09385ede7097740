// Package services contains server-side business logic: employer lifecycle,
// insured affiliation, the declaration and payment ledgers, recovery actions,
// and the KPI engine. Handlers stay thin; every rule lives here.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/server/auth"
	"github.com/fmbakop/cotisio/internal/server/config"
	"github.com/fmbakop/cotisio/internal/server/models"
	"github.com/fmbakop/cotisio/internal/server/repositories/repomanager"
)

// UserService handles registration and login, minting JWTs that carry the
// actor identity (user id + role) consumed by every mutating operation.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{db: db, repomanager: m, config: cfg}
}

// Register creates a new user with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if user.UserName == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, user.Role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user.PasswordHash = hash
	user.IsActive = true

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and mints an access token.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}

	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, password) {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(
		models.Actor{ID: user.ID, Role: user.Role},
		[]byte(s.config.SecretKey),
		s.config.AccessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	return token, nil
}
