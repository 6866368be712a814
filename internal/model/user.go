package model

import (
	"time"

	"gorm.io/gorm"
)

// Role decides which part of the API an account can reach.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// AccountStatus is whether an account may log in.
type AccountStatus string

const (
	AccountStatusEnabled  AccountStatus = "enabled"
	AccountStatusDisabled AccountStatus = "disabled"
)

// UserAccount holds login credentials. Teacher and student accounts point at
// their record through RelatedID.
type UserAccount struct {
	ID           uint64        `gorm:"primaryKey" json:"id"`
	Username     string        `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string        `gorm:"size:255;not null" json:"-"`
	Role         Role          `gorm:"size:20;not null" json:"role"`
	RelatedID    *uint64       `gorm:"column:related_id" json:"related_id"`
	Status       AccountStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (UserAccount) TableName() string { return "user_account" }

func (u *UserAccount) BeforeCreate(*gorm.DB) error {
	if u.Status == "" {
		u.Status = AccountStatusEnabled
	}
	return nil
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserAccount `json:"user"`
}

// CreateUserRequest is the payload for an admin creating an account.
type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Password  string  `json:"password" binding:"required,min=6,max=128"`
	Role      Role    `json:"role" binding:"required,oneof=admin teacher student"`
	RelatedID *uint64 `json:"related_id" binding:"omitempty,min=1"`
}

// UpdateUserStatusRequest enables or disables an account.
type UpdateUserStatusRequest struct {
	Status AccountStatus `json:"status" binding:"required,oneof=enabled disabled"`
}

// ChangePasswordRequest replaces the caller's own password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128,nefield=OldPassword"`
}
