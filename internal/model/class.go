package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClassStatus is the teaching phase of a class.
type ClassStatus string

const (
	ClassStatusNotStarted ClassStatus = "not_started"
	ClassStatusInProgress ClassStatus = "in_progress"
	ClassStatusCompleted  ClassStatus = "completed"
)

func (s ClassStatus) Valid() bool {
	switch s {
	case ClassStatusNotStarted, ClassStatusInProgress, ClassStatusCompleted:
		return true
	}
	return false
}

// Class is a scheduled run of a course taught by a teacher.
// ClassCode is assigned and CurrentCount reset to zero on insert.
type Class struct {
	ID           uint64          `gorm:"primaryKey" json:"id"`
	ClassCode    string          `gorm:"size:32;not null;uniqueIndex" json:"class_code"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	CourseID     *uint64         `gorm:"column:course_id;index" json:"course_id"`
	Course       *Course         `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"course,omitempty"`
	TeacherID    *uint64         `gorm:"column:teacher_id;index" json:"teacher_id"`
	Teacher      *Teacher        `gorm:"foreignKey:TeacherID;constraint:OnDelete:SET NULL" json:"teacher,omitempty"`
	StartDate    *datatypes.Date `gorm:"column:start_date" json:"start_date"`
	EndDate      *datatypes.Date `gorm:"column:end_date" json:"end_date"`
	Capacity     *int            `json:"capacity"`
	CurrentCount int             `gorm:"column:current_count;not null" json:"current_count"`
	Status       ClassStatus     `gorm:"size:20;not null" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Class) TableName() string { return "class" }

func (c *Class) BeforeCreate(*gorm.DB) error {
	if c.ClassCode == "" {
		c.ClassCode = Codes.Next(ClassCodePrefix)
	}
	c.CurrentCount = 0
	if c.Status == "" {
		c.Status = ClassStatusNotStarted
	}
	return nil
}

// StatusOn is the status the periodic sync would give the class on the
// given day. Status only moves forward: completed stays completed and an
// in-progress class is never sent back to not_started.
func (c *Class) StatusOn(today datatypes.Date) ClassStatus {
	status := c.Status
	if status == "" {
		status = ClassStatusNotStarted
	}
	day := time.Time(today)
	switch {
	case status == ClassStatusCompleted:
		return status
	case c.EndDate != nil && time.Time(*c.EndDate).Before(day):
		return ClassStatusCompleted
	case status == ClassStatusNotStarted && c.StartDate != nil && !time.Time(*c.StartDate).After(day):
		return ClassStatusInProgress
	}
	return status
}

// ClassFilter narrows class listings.
type ClassFilter struct {
	CourseID  *uint64
	TeacherID *uint64
	Status    ClassStatus
	PageQuery
}

// CreateClassRequest is the payload for opening a class.
type CreateClassRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=100"`
	CourseID  *uint64 `json:"course_id" binding:"omitempty,min=1"`
	TeacherID *uint64 `json:"teacher_id" binding:"omitempty,min=1"`
	StartDate string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Capacity  *int    `json:"capacity" binding:"omitempty,min=1,max=10000"`
}

// UpdateClassRequest replaces the editable fields of a class.
type UpdateClassRequest struct {
	Name      string      `json:"name" binding:"required,min=1,max=100"`
	CourseID  *uint64     `json:"course_id" binding:"omitempty,min=1"`
	TeacherID *uint64     `json:"teacher_id" binding:"omitempty,min=1"`
	StartDate string      `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string      `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Capacity  *int        `json:"capacity" binding:"omitempty,min=1,max=10000"`
	Status    ClassStatus `json:"status" binding:"required,oneof=not_started in_progress completed"`
}
