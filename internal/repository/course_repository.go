package repository

import (
	"context"
	"errors"

	"github.com/edutrain/training-backend/internal/model"
	"gorm.io/gorm"
)

// ErrCourseCodeTaken is returned when a live course already uses the code.
var ErrCourseCodeTaken = errors.New("course code already exists")

const courseCodeConstraint = "uni_course_course_code"

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	var c model.Course
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// GetByCodeUnscoped finds a course by code including soft-deleted rows.
func (r *CourseRepository) GetByCodeUnscoped(ctx context.Context, code string) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).Unscoped().Where("course_code = ?", code).First(&c).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// List returns a page of live courses and the total match count.
func (r *CourseRepository) List(ctx context.Context, f model.CourseFilter) ([]model.Course, int64, error) {
	f.PageQuery = f.PageQuery.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Course{})
	if f.Name != "" {
		q = q.Where("name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Type != "" {
		q = q.Where("course_type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := q.Order("id DESC").Scopes(paginate(f.PageQuery)).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if violates(err, courseCodeConstraint) {
		return ErrCourseCodeTaken
	}
	return mapError(err)
}

// Restore revives a soft-deleted course, overwriting it with c's fields.
func (r *CourseRepository) Restore(ctx context.Context, c *model.Course) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Course{}).
		Where("id = ? AND deleted_at IS NOT NULL", c.ID).
		Updates(map[string]interface{}{
			"name":             c.Name,
			"description":      c.Description,
			"course_type":      c.Type,
			"difficulty_level": c.DifficultyLevel,
			"duration":         c.Duration,
			"price":            c.Price,
			"status":           c.Status,
			"deleted_at":       nil,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.db.WithContext(ctx).First(c, c.ID).Error
}

func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	res := r.db.WithContext(ctx).Model(&model.Course{ID: c.ID}).
		Select("name", "description", "course_type", "difficulty_level", "duration", "price", "status", "updated_at").
		Updates(c)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete hides a course; classes keep their reference to it.
func (r *CourseRepository) SoftDelete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.Course{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
