package repository

import (
	"context"
	"errors"
	"time"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAlreadyEnrolled     = errors.New("student already has an active enrollment in this class")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrClassFull           = errors.New("class is full")
	ErrClassCompleted      = errors.New("class has already completed")
	ErrCourseUnavailable   = errors.New("course is not open for enrollment")
	ErrEnrollmentClosed    = errors.New("rejected enrollment cannot be reopened")
)

const activeEnrollmentConstraint = "uni_enrollment_active"

// EnrollmentRepository owns the money and seat bookkeeping of enrollments.
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id uint64) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).Preload("Student").Preload("Class").First(&e, id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

// List returns a page of enrollments. TeacherID restricts to classes the
// teacher runs.
func (r *EnrollmentRepository) List(ctx context.Context, f model.EnrollmentFilter) ([]model.Enrollment, int64, error) {
	f.PageQuery = f.PageQuery.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Enrollment{})
	if f.StudentID != nil {
		q = q.Where("enrollment.student_id = ?", *f.StudentID)
	}
	if f.ClassID != nil {
		q = q.Where("enrollment.class_id = ?", *f.ClassID)
	}
	if f.TeacherID != nil {
		q = q.Where("enrollment.class_id IN (?)",
			r.db.Model(&model.Class{}).Select("id").Where("teacher_id = ?", *f.TeacherID))
	}
	if f.Status != "" {
		q = q.Where("enrollment.status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enrollments []model.Enrollment
	err := q.Preload("Student").Preload("Class").
		Order("enrollment.id DESC").Scopes(paginate(f.PageQuery)).Find(&enrollments).Error
	return enrollments, total, err
}

// Apply charges the course price to the student and records a pending
// enrollment, all in one transaction.
func (r *EnrollmentRepository) Apply(ctx context.Context, studentID, classID uint64) (*model.Enrollment, error) {
	var enrollment *model.Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class model.Class
		if err := tx.Preload("Course").First(&class, classID).Error; err != nil {
			return mapError(err)
		}
		if class.Status == model.ClassStatusCompleted {
			return ErrClassCompleted
		}
		if class.Course == nil || class.Course.Status != model.CourseStatusEnabled {
			return ErrCourseUnavailable
		}

		var active int64
		err := tx.Model(&model.Enrollment{}).
			Where("student_id = ? AND class_id = ? AND status IN ?", studentID, classID,
				[]model.EnrollmentStatus{model.EnrollmentStatusPending, model.EnrollmentStatusApproved}).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyEnrolled
		}

		price := class.Course.Price
		res := tx.Model(&model.Student{}).
			Where("id = ? AND balance >= ?", studentID, price).
			Update("balance", gorm.Expr("balance - ?", price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&model.Student{}).Where("id = ?", studentID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return ErrNotFound
			}
			return ErrInsufficientBalance
		}

		enrollment = &model.Enrollment{
			StudentID:  studentID,
			ClassID:    classID,
			PaidAmount: price,
		}
		err = tx.Omit("Student", "Class").Create(enrollment).Error
		if violates(err, activeEnrollmentConstraint) {
			return ErrAlreadyEnrolled
		}
		return mapError(err)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Review moves an enrollment to status. Approval claims a seat, leaving
// approval releases it, and rejection refunds the paid amount.
func (r *EnrollmentRepository) Review(ctx context.Context, id uint64, status model.EnrollmentStatus) (*model.ReviewOutcome, error) {
	outcome := &model.ReviewOutcome{Refund: decimal.Zero}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e model.Enrollment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error
		if err != nil {
			return mapError(err)
		}
		outcome.Enrollment = &e

		previous := e.Status
		if previous == status {
			return nil
		}
		if previous == model.EnrollmentStatusRejected {
			return ErrEnrollmentClosed
		}

		if previous == model.EnrollmentStatusApproved {
			err := tx.Model(&model.Class{}).
				Where("id = ? AND current_count > 0", e.ClassID).
				Update("current_count", gorm.Expr("current_count - 1")).Error
			if err != nil {
				return err
			}
		}
		if status == model.EnrollmentStatusApproved {
			res := tx.Model(&model.Class{}).
				Where("id = ? AND (capacity IS NULL OR current_count < capacity)", e.ClassID).
				Update("current_count", gorm.Expr("current_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrClassFull
			}
		}
		if status == model.EnrollmentStatusRejected && e.PaidAmount.IsPositive() {
			err := tx.Model(&model.Student{}).Where("id = ?", e.StudentID).
				Update("balance", gorm.Expr("balance + ?", e.PaidAmount)).Error
			if err != nil {
				return err
			}
			outcome.Refund = e.PaidAmount
		}

		now := time.Now()
		e.Status = status
		e.ReviewedAt = &now
		return tx.Model(&e).Select("status", "reviewed_at", "updated_at").Updates(&e).Error
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
