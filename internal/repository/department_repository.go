package repository

import (
	"context"

	"github.com/edutrain/training-backend/internal/model"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uint64) (*model.Department, error) {
	var d model.Department
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *model.Department) error {
	return mapError(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DepartmentRepository) Update(ctx context.Context, d *model.Department) error {
	res := r.db.WithContext(ctx).Model(&model.Department{ID: d.ID}).
		Select("name", "description", "updated_at").
		Updates(d)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.Department{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
