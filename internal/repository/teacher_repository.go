package repository

import (
	"context"

	"github.com/edutrain/training-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const teacherCodeConstraint = "uni_teacher_teacher_code"

type TeacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) GetByID(ctx context.Context, id uint64) (*model.Teacher, error) {
	var t model.Teacher
	if err := r.db.WithContext(ctx).Preload("Department").First(&t, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *TeacherRepository) List(ctx context.Context, f model.TeacherFilter) ([]model.Teacher, int64, error) {
	f.PageQuery = f.PageQuery.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Teacher{})
	if f.Name != "" {
		q = q.Where("name ILIKE ?", "%"+f.Name+"%")
	}
	if f.DepartmentID != nil {
		q = q.Where("department_id = ?", *f.DepartmentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teachers []model.Teacher
	err := q.Preload("Department").Order("id DESC").Scopes(paginate(f.PageQuery)).Find(&teachers).Error
	return teachers, total, err
}

// CreateWithAccount inserts the teacher and its login in one transaction.
func (r *TeacherRepository) CreateWithAccount(ctx context.Context, t *model.Teacher, passwordHash string) (*model.UserAccount, error) {
	var account *model.UserAccount
	err := withCodeRetry(teacherCodeConstraint,
		func() {
			t.ID = 0
			t.TeacherCode = ""
		},
		func() error {
			return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Omit("Department").Create(t).Error; err != nil {
					return err
				}
				account = &model.UserAccount{
					Username:     t.TeacherCode,
					PasswordHash: passwordHash,
					Role:         model.RoleTeacher,
					RelatedID:    &t.ID,
				}
				return tx.Create(account).Error
			})
		},
	)
	if err != nil {
		return nil, mapError(err)
	}
	return account, nil
}

func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	res := r.db.WithContext(ctx).Model(&model.Teacher{ID: t.ID}).
		Select("name", "gender", "phone", "email", "department_id", "title", "hire_date", "status", "updated_at").
		Updates(t)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the teacher and its login. Classes keep a NULL teacher.
func (r *TeacherRepository) Delete(ctx context.Context, id uint64) (uint64, error) {
	var accountID uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Teacher{}, id)
		if res.Error != nil {
			return mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var removed []model.UserAccount
		err := tx.Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
			Where("role = ? AND related_id = ?", model.RoleTeacher, id).
			Delete(&removed).Error
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			accountID = removed[0].ID
		}
		return nil
	})
	return accountID, err
}
