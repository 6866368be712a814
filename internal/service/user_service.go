package service

import (
	"context"
	"fmt"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/rs/zerolog"
)

// UserService manages login accounts.
type UserService struct {
	users    UserStore
	auth     *AuthService
	sessions SessionStore
	log      zerolog.Logger
}

func NewUserService(users UserStore, auth *AuthService, sessions SessionStore, log zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		auth:     auth,
		sessions: sessions,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

func (s *UserService) List(ctx context.Context, role model.Role, page model.PageQuery) ([]model.UserAccount, int64, error) {
	return s.users.List(ctx, role, page)
}

// Create registers an account with a freshly hashed password.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.UserAccount, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.UserAccount{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		RelatedID:    req.RelatedID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Uint64("user_id", u.ID).Str("role", string(u.Role)).Msg("Account created")
	return u, nil
}

// UpdateStatus enables or disables an account. Disabling ends its session.
func (s *UserService) UpdateStatus(ctx context.Context, id uint64, status model.AccountStatus) error {
	if err := s.users.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	if status == model.AccountStatusDisabled {
		if err := s.sessions.Delete(ctx, id); err != nil {
			s.log.Warn().Err(err).Uint64("user_id", id).Msg("Failed to drop session of disabled account")
		}
	}
	return nil
}

// ChangePassword replaces the caller's password after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, id uint64, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.auth.CheckPassword(u.PasswordHash, oldPassword); err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, hash)
}
