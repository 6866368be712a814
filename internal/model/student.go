package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gender is shared by students and teachers.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// StudentStatus tracks a student's standing with the institution.
type StudentStatus string

const (
	StudentStatusEnrolled  StudentStatus = "enrolled"
	StudentStatusGraduated StudentStatus = "graduated"
	StudentStatusWithdrawn StudentStatus = "withdrawn"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusEnrolled, StudentStatusGraduated, StudentStatusWithdrawn:
		return true
	}
	return false
}

// Student is a trainee. StudentCode and RegistrationDate are assigned on insert.
type Student struct {
	ID               uint64          `gorm:"primaryKey" json:"id"`
	StudentCode      string          `gorm:"size:32;not null;uniqueIndex" json:"student_code"`
	Name             string          `gorm:"size:50;not null" json:"name"`
	Gender           Gender          `gorm:"size:10" json:"gender"`
	Phone            string          `gorm:"size:25" json:"phone"`
	Email            string          `gorm:"size:150" json:"email"`
	DateOfBirth      *datatypes.Date `gorm:"column:date_of_birth" json:"date_of_birth"`
	Address          string          `gorm:"size:255" json:"address"`
	Balance          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"balance"`
	RegistrationDate time.Time       `gorm:"not null" json:"registration_date"`
	Status           StudentStatus   `gorm:"size:20;not null" json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Student) TableName() string { return "student" }

func (s *Student) BeforeCreate(*gorm.DB) error {
	if s.StudentCode == "" {
		s.StudentCode = Codes.Next(StudentCodePrefix)
	}
	if s.RegistrationDate.IsZero() {
		s.RegistrationDate = time.Now()
	}
	if s.Status == "" {
		s.Status = StudentStatusEnrolled
	}
	return nil
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Name   string
	Status StudentStatus
	PageQuery
}

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Gender      Gender `json:"gender" binding:"omitempty,oneof=male female"`
	Phone       string `json:"phone" binding:"omitempty,mobile"`
	Email       string `json:"email" binding:"omitempty,email,max=150"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address" binding:"max=255"`
}

// UpdateStudentRequest replaces the editable fields of a student.
type UpdateStudentRequest struct {
	Name        string        `json:"name" binding:"required,min=1,max=50"`
	Gender      Gender        `json:"gender" binding:"omitempty,oneof=male female"`
	Phone       string        `json:"phone" binding:"omitempty,mobile"`
	Email       string        `json:"email" binding:"omitempty,email,max=150"`
	DateOfBirth string        `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address     string        `json:"address" binding:"max=255"`
	Status      StudentStatus `json:"status" binding:"required,oneof=enrolled graduated withdrawn"`
}

// RechargeRequest tops up a student's balance.
type RechargeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"gt=0,lte=100000"`
}

// StudentImportResult summarises a roster import.
type StudentImportResult struct {
	Imported int            `json:"imported"`
	Updated  int            `json:"updated"`
	Skipped  []ImportReject `json:"skipped"`
	// IgnoredColumns lists header cells that import does not read, such as
	// Balance and Registration Date.
	IgnoredColumns []string `json:"ignored_columns"`
}

// ImportReject describes a spreadsheet row that was not imported.
type ImportReject struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
