package repository

import (
	"context"
	"errors"

	"github.com/edutrain/training-backend/internal/model"
	"gorm.io/gorm"
)

// ErrUsernameTaken is returned when the username is already registered.
var ErrUsernameTaken = errors.New("username already exists")

const usernameConstraint = "uni_user_account_username"

// UserRepository handles login account data access.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*model.UserAccount, error) {
	var u model.UserAccount
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.UserAccount, error) {
	var u model.UserAccount
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// List returns a page of accounts, optionally of a single role.
func (r *UserRepository) List(ctx context.Context, role model.Role, page model.PageQuery) ([]model.UserAccount, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&model.UserAccount{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.UserAccount
	err := q.Order("id ASC").Scopes(paginate(page)).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Create(ctx context.Context, u *model.UserAccount) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if violates(err, usernameConstraint) {
		return ErrUsernameTaken
	}
	return mapError(err)
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id uint64, status model.AccountStatus) error {
	res := r.db.WithContext(ctx).Model(&model.UserAccount{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&model.UserAccount{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
