package repository

import (
	"context"
	"errors"
	"time"

	"github.com/edutrain/training-backend/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCapacityBelowCount = errors.New("capacity is below the approved enrollment count")
	ErrInvalidDateRange   = errors.New("end date precedes start date")
)

const (
	classCodeConstraint     = "uni_class_class_code"
	classCapacityConstraint = "chk_class_capacity"
	classDatesConstraint    = "chk_class_dates"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	db *gorm.DB
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// GetByID retrieves a class with its course and teacher.
func (r *ClassRepository) GetByID(ctx context.Context, id uint64) (*model.Class, error) {
	var c model.Class
	err := r.db.WithContext(ctx).Preload("Course").Preload("Teacher").First(&c, id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// List returns a page of classes and the total match count.
func (r *ClassRepository) List(ctx context.Context, f model.ClassFilter) ([]model.Class, int64, error) {
	f.PageQuery = f.PageQuery.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Class{})
	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	if f.TeacherID != nil {
		q = q.Where("teacher_id = ?", *f.TeacherID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var classes []model.Class
	err := q.Preload("Course").Preload("Teacher").
		Order("id DESC").Scopes(paginate(f.PageQuery)).Find(&classes).Error
	return classes, total, err
}

// Create inserts a class, regenerating its code on collision.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	err := withCodeRetry(classCodeConstraint,
		func() {
			c.ID = 0
			c.ClassCode = ""
		},
		func() error {
			return r.db.WithContext(ctx).Omit("Course", "Teacher").Create(c).Error
		},
	)
	return r.mapClassError(err)
}

// Update writes the editable fields. current_count is never touched here.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	res := r.db.WithContext(ctx).Model(&model.Class{ID: c.ID}).
		Select("name", "course_id", "teacher_id", "start_date", "end_date", "capacity", "status", "updated_at").
		Updates(c)
	if res.Error != nil {
		return r.mapClassError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClassRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.Class{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SyncStatuses moves classes along their date range as of today and returns
// the number of rows changed.
func (r *ClassRepository) SyncStatuses(ctx context.Context, today datatypes.Date) (int64, error) {
	var changed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.Class{}).
			Where("status <> ? AND end_date < ?", model.ClassStatusCompleted, today).
			Updates(map[string]interface{}{"status": model.ClassStatusCompleted, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		changed += res.RowsAffected

		res = tx.Model(&model.Class{}).
			Where("status = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
				model.ClassStatusNotStarted, today, today).
			Updates(map[string]interface{}{"status": model.ClassStatusInProgress, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		changed += res.RowsAffected
		return nil
	})
	return changed, err
}

func (r *ClassRepository) mapClassError(err error) error {
	switch {
	case failsCheck(err, classCapacityConstraint):
		return ErrCapacityBelowCount
	case failsCheck(err, classDatesConstraint):
		return ErrInvalidDateRange
	}
	return mapError(err)
}

// ListAvailable returns open classes of enabled courses in which the student
// holds no pending or approved enrollment.
func (r *ClassRepository) ListAvailable(ctx context.Context, studentID uint64) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Joins("JOIN course ON course.id = class.course_id AND course.deleted_at IS NULL").
		Where("course.status = ?", model.CourseStatusEnabled).
		Where("class.status <> ?", model.ClassStatusCompleted).
		Where("NOT EXISTS (?)", r.db.Model(&model.Enrollment{}).Select("1").
			Where("enrollment.class_id = class.id AND enrollment.student_id = ? AND enrollment.status IN ?", studentID,
				[]model.EnrollmentStatus{model.EnrollmentStatusPending, model.EnrollmentStatusApproved})).
		Preload("Course").Preload("Teacher").
		Order("class.start_date ASC NULLS LAST, class.id ASC").
		Find(&classes).Error
	return classes, err
}
