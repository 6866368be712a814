package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TeacherStatus is whether a teacher is still on staff.
type TeacherStatus string

const (
	TeacherStatusEmployed TeacherStatus = "employed"
	TeacherStatusDeparted TeacherStatus = "departed"
)

func (s TeacherStatus) Valid() bool {
	return s == TeacherStatusEmployed || s == TeacherStatusDeparted
}

// Teacher is an instructor. TeacherCode is assigned on insert.
type Teacher struct {
	ID           uint64          `gorm:"primaryKey" json:"id"`
	TeacherCode  string          `gorm:"size:32;not null;uniqueIndex" json:"teacher_code"`
	Name         string          `gorm:"size:50;not null" json:"name"`
	Gender       Gender          `gorm:"size:10" json:"gender"`
	Phone        string          `gorm:"size:25" json:"phone"`
	Email        string          `gorm:"size:150" json:"email"`
	DepartmentID *uint64         `gorm:"column:department_id;index" json:"department_id"`
	Department   *Department     `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
	Title        string          `gorm:"size:50" json:"title"`
	HireDate     *datatypes.Date `gorm:"column:hire_date" json:"hire_date"`
	Status       TeacherStatus   `gorm:"size:20;not null" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Teacher) TableName() string { return "teacher" }

func (t *Teacher) BeforeCreate(*gorm.DB) error {
	if t.TeacherCode == "" {
		t.TeacherCode = Codes.Next(TeacherCodePrefix)
	}
	if t.Status == "" {
		t.Status = TeacherStatusEmployed
	}
	return nil
}

// TeacherFilter narrows teacher listings.
type TeacherFilter struct {
	Name         string
	DepartmentID *uint64
	Status       TeacherStatus
	PageQuery
}

// CreateTeacherRequest is the payload for hiring a teacher.
type CreateTeacherRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=50"`
	Gender       Gender  `json:"gender" binding:"omitempty,oneof=male female"`
	Phone        string  `json:"phone" binding:"omitempty,mobile"`
	Email        string  `json:"email" binding:"omitempty,email,max=150"`
	DepartmentID *uint64 `json:"department_id" binding:"omitempty,min=1"`
	Title        string  `json:"title" binding:"max=50"`
	HireDate     string  `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateTeacherRequest replaces the editable fields of a teacher.
type UpdateTeacherRequest struct {
	Name         string        `json:"name" binding:"required,min=1,max=50"`
	Gender       Gender        `json:"gender" binding:"omitempty,oneof=male female"`
	Phone        string        `json:"phone" binding:"omitempty,mobile"`
	Email        string        `json:"email" binding:"omitempty,email,max=150"`
	DepartmentID *uint64       `json:"department_id" binding:"omitempty,min=1"`
	Title        string        `json:"title" binding:"max=50"`
	HireDate     string        `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	Status       TeacherStatus `json:"status" binding:"required,oneof=employed departed"`
}
