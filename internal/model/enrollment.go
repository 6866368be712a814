package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EnrollmentStatus is the review state of an application.
type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"
	EnrollmentStatusApproved EnrollmentStatus = "approved"
	EnrollmentStatusRejected EnrollmentStatus = "rejected"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusApproved, EnrollmentStatusRejected:
		return true
	}
	return false
}

// Enrollment is a student's paid application for a seat in a class.
type Enrollment struct {
	ID         uint64           `gorm:"primaryKey" json:"id"`
	StudentID  uint64           `gorm:"not null;index" json:"student_id"`
	Student    *Student         `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	ClassID    uint64           `gorm:"not null;index" json:"class_id"`
	Class      *Class           `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"class,omitempty"`
	Status     EnrollmentStatus `gorm:"size:20;not null" json:"status"`
	PaidAmount decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"paid_amount"`
	EnrolledAt time.Time        `gorm:"not null" json:"enrolled_at"`
	ReviewedAt *time.Time       `json:"reviewed_at"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}
	if e.Status == "" {
		e.Status = EnrollmentStatusPending
	}
	return nil
}

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	StudentID *uint64
	ClassID   *uint64
	TeacherID *uint64
	Status    EnrollmentStatus
	PageQuery
}

// ApplyEnrollmentRequest is a student's application for a class.
type ApplyEnrollmentRequest struct {
	ClassID uint64 `json:"class_id" binding:"required,min=1"`
}

// ReviewEnrollmentRequest sets the review outcome of an application.
type ReviewEnrollmentRequest struct {
	Status EnrollmentStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

// ReviewOutcome reports the side effects of a review.
type ReviewOutcome struct {
	Enrollment *Enrollment     `json:"enrollment"`
	Refund     decimal.Decimal `json:"refund"`
}
