package repository

import (
	"context"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const studentCodeConstraint = "uni_student_student_code"

// StudentRepository handles student data access.
type StudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

// GetByCode retrieves a student by its student code.
func (r *StudentRepository) GetByCode(ctx context.Context, code string) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("student_code = ?", code).First(&s).Error; err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

// List returns a page of students and the total match count.
func (r *StudentRepository) List(ctx context.Context, f model.StudentFilter) ([]model.Student, int64, error) {
	f.PageQuery = f.PageQuery.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Student{})
	if f.Name != "" {
		q = q.Where("name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []model.Student
	err := q.Order("id DESC").Scopes(paginate(f.PageQuery)).Find(&students).Error
	return students, total, err
}

// ListAll returns every student ordered by ID, for roster export.
func (r *StudentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).Order("id ASC").Find(&students).Error
	return students, err
}

// CreateWithAccount inserts the student and a student login named after its
// code in one transaction. A code collision regenerates the code.
func (r *StudentRepository) CreateWithAccount(ctx context.Context, s *model.Student, passwordHash string) (*model.UserAccount, error) {
	var account *model.UserAccount
	err := withCodeRetry(studentCodeConstraint,
		func() {
			s.ID = 0
			s.StudentCode = ""
		},
		func() error {
			return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(s).Error; err != nil {
					return err
				}
				account = &model.UserAccount{
					Username:     s.StudentCode,
					PasswordHash: passwordHash,
					Role:         model.RoleStudent,
					RelatedID:    &s.ID,
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

// CreateBatch inserts each student with its account independently and
// returns one error slot per input row.
func (r *StudentRepository) CreateBatch(ctx context.Context, students []*model.Student, passwordHash string) []error {
	errs := make([]error, len(students))
	for i, s := range students {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		_, errs[i] = r.CreateWithAccount(ctx, s, passwordHash)
	}
	return errs
}

// Update writes the editable profile fields.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	res := r.db.WithContext(ctx).Model(&model.Student{ID: s.ID}).
		Select("name", "gender", "phone", "email", "date_of_birth", "address", "status", "updated_at").
		Updates(s)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the student together with its login. Enrollments cascade.
func (r *StudentRepository) Delete(ctx context.Context, id uint64) (uint64, error) {
	var accountID uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Student{}, id)
		if res.Error != nil {
			return mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var removed []model.UserAccount
		err := tx.Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
			Where("role = ? AND related_id = ?", model.RoleStudent, id).
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

// Recharge adds amount to the balance and returns the new balance.
func (r *StudentRepository) Recharge(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Student{}).Where("id = ?", id).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&model.Student{}).Where("id = ?", id).Pluck("balance", &balance).Error
	})
	if err != nil {
		return decimal.Zero, mapError(err)
	}
	return balance, nil
}
