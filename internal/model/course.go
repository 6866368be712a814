package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CourseStatus is whether a course is offered.
type CourseStatus string

const (
	CourseStatusEnabled  CourseStatus = "enabled"
	CourseStatusDisabled CourseStatus = "disabled"
)

func (s CourseStatus) Valid() bool {
	return s == CourseStatusEnabled || s == CourseStatusDisabled
}

// Course is a catalogue entry. Its code is chosen by the institution.
type Course struct {
	ID              uint64          `gorm:"primaryKey" json:"id"`
	CourseCode      string          `gorm:"size:50;not null;uniqueIndex" json:"course_code"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Type            string          `gorm:"column:course_type;size:50" json:"type"`
	DifficultyLevel string          `gorm:"column:difficulty_level;size:30" json:"difficulty_level"`
	Duration        *int            `json:"duration"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Status          CourseStatus    `gorm:"size:20;not null" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.Status == "" {
		c.Status = CourseStatusEnabled
	}
	return nil
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	Name   string
	Type   string
	Status CourseStatus
	PageQuery
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	CourseCode      string          `json:"course_code" binding:"required,min=2,max=50"`
	Name            string          `json:"name" binding:"required,min=1,max=100"`
	Description     string          `json:"description" binding:"max=2000"`
	Type            string          `json:"type" binding:"max=50"`
	DifficultyLevel string          `json:"difficulty_level" binding:"max=30"`
	Duration        *int            `json:"duration" binding:"omitempty,min=1,max=10000"`
	Price           decimal.Decimal `json:"price" binding:"gte=0"`
	Status          CourseStatus    `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

// UpdateCourseRequest replaces the editable fields of a course.
type UpdateCourseRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=100"`
	Description     string          `json:"description" binding:"max=2000"`
	Type            string          `json:"type" binding:"max=50"`
	DifficultyLevel string          `json:"difficulty_level" binding:"max=30"`
	Duration        *int            `json:"duration" binding:"omitempty,min=1,max=10000"`
	Price           decimal.Decimal `json:"price" binding:"gte=0"`
	Status          CourseStatus    `json:"status" binding:"required,oneof=enabled disabled"`
}
