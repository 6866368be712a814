package model

import (
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func date(t *testing.T, s string) *datatypes.Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBeforeCreateDefaults(t *testing.T) {
	s := &Student{Name: "Li Lei"}
	if err := s.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s.StudentCode, StudentCodePrefix) {
		t.Errorf("StudentCode = %q", s.StudentCode)
	}
	if s.RegistrationDate.IsZero() || s.Status != StudentStatusEnrolled {
		t.Errorf("defaults not applied: %+v", s)
	}

	tc := &Teacher{Name: "Wang"}
	_ = tc.BeforeCreate(nil)
	if !strings.HasPrefix(tc.TeacherCode, TeacherCodePrefix) || tc.Status != TeacherStatusEmployed {
		t.Errorf("teacher defaults not applied: %+v", tc)
	}

	c := &Class{Name: "Evening Go", CurrentCount: 7, ClassCode: "CLSKEEP"}
	_ = c.BeforeCreate(nil)
	if c.CurrentCount != 0 {
		t.Errorf("CurrentCount = %d, want 0", c.CurrentCount)
	}
	if c.ClassCode != "CLSKEEP" {
		t.Errorf("explicit code overwritten: %q", c.ClassCode)
	}
	if c.Status != ClassStatusNotStarted {
		t.Errorf("Status = %q", c.Status)
	}

	course := &Course{CourseCode: "GO-101"}
	_ = course.BeforeCreate(nil)
	if course.Status != CourseStatusEnabled {
		t.Errorf("course status = %q", course.Status)
	}

	e := &Enrollment{}
	_ = e.BeforeCreate(nil)
	if e.Status != EnrollmentStatusPending || e.EnrolledAt.IsZero() {
		t.Errorf("enrollment defaults not applied: %+v", e)
	}
}

func TestStatusValid(t *testing.T) {
	if !ClassStatusInProgress.Valid() || ClassStatus("paused").Valid() {
		t.Error("ClassStatus.Valid")
	}
	if !StudentStatusWithdrawn.Valid() || StudentStatus("").Valid() {
		t.Error("StudentStatus.Valid")
	}
	if !RoleTeacher.Valid() || Role("root").Valid() {
		t.Error("Role.Valid")
	}
	if !EnrollmentStatusRejected.Valid() || EnrollmentStatus("cancelled").Valid() {
		t.Error("EnrollmentStatus.Valid")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	if err != nil || d != nil {
		t.Fatalf("empty: %v %v", d, err)
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Fatal("expected error for bad month")
	}
	if got := FormatDate(date(t, "2024-02-29")); got != "2024-02-29" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestClassStatusOn(t *testing.T) {
	today := Today(time.Date(2025, 3, 10, 15, 4, 0, 0, time.UTC))

	tests := []struct {
		name  string
		class Class
		want  ClassStatus
	}{
		{"future", Class{StartDate: date(t, "2025-03-11"), Status: ClassStatusNotStarted}, ClassStatusNotStarted},
		{"starts today", Class{StartDate: date(t, "2025-03-10"), Status: ClassStatusNotStarted}, ClassStatusInProgress},
		{"ends today", Class{StartDate: date(t, "2025-03-01"), EndDate: date(t, "2025-03-10")}, ClassStatusInProgress},
		{"ended", Class{StartDate: date(t, "2025-03-01"), EndDate: date(t, "2025-03-09")}, ClassStatusCompleted},
		{"undated", Class{Status: ClassStatusInProgress}, ClassStatusInProgress},
		{"undated new", Class{}, ClassStatusNotStarted},
		{"completed early stays completed", Class{StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), Status: ClassStatusCompleted}, ClassStatusCompleted},
		{"started early stays in progress", Class{StartDate: date(t, "2025-04-01"), Status: ClassStatusInProgress}, ClassStatusInProgress},
		{"in progress past its end", Class{EndDate: date(t, "2025-03-01"), Status: ClassStatusInProgress}, ClassStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.class.StatusOn(today); got != tt.want {
				t.Fatalf("StatusOn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageQueryNormalize(t *testing.T) {
	p := PageQuery{Page: 0, PerPage: 1000}.Normalize()
	if p.Page != 1 || p.PerPage != 100 {
		t.Fatalf("Normalize() = %+v", p)
	}
	if off := (PageQuery{Page: 3, PerPage: 20}).Offset(); off != 40 {
		t.Fatalf("Offset() = %d", off)
	}
}
