package service

import (
	"context"
	"time"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Storage contracts consumed by the services. The repository package
// provides the PostgreSQL implementations.

type CourseStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Course, error)
	GetByCodeUnscoped(ctx context.Context, code string) (*model.Course, error)
	List(ctx context.Context, f model.CourseFilter) ([]model.Course, int64, error)
	Create(ctx context.Context, c *model.Course) error
	Restore(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	SoftDelete(ctx context.Context, id uint64) error
}

type StudentStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Student, error)
	GetByCode(ctx context.Context, code string) (*model.Student, error)
	List(ctx context.Context, f model.StudentFilter) ([]model.Student, int64, error)
	ListAll(ctx context.Context) ([]model.Student, error)
	CreateWithAccount(ctx context.Context, s *model.Student, passwordHash string) (*model.UserAccount, error)
	CreateBatch(ctx context.Context, students []*model.Student, passwordHash string) []error
	Update(ctx context.Context, s *model.Student) error
	// Delete returns the ID of the removed login account, 0 if there was none.
	Delete(ctx context.Context, id uint64) (uint64, error)
	Recharge(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error)
}

type TeacherStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Teacher, error)
	List(ctx context.Context, f model.TeacherFilter) ([]model.Teacher, int64, error)
	CreateWithAccount(ctx context.Context, t *model.Teacher, passwordHash string) (*model.UserAccount, error)
	Update(ctx context.Context, t *model.Teacher) error
	Delete(ctx context.Context, id uint64) (uint64, error)
}

type ClassStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Class, error)
	List(ctx context.Context, f model.ClassFilter) ([]model.Class, int64, error)
	ListAvailable(ctx context.Context, studentID uint64) ([]model.Class, error)
	Create(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) error
	Delete(ctx context.Context, id uint64) error
	SyncStatuses(ctx context.Context, today datatypes.Date) (int64, error)
}

type DepartmentStore interface {
	GetAll(ctx context.Context) ([]model.Department, error)
	GetByID(ctx context.Context, id uint64) (*model.Department, error)
	Create(ctx context.Context, d *model.Department) error
	Update(ctx context.Context, d *model.Department) error
	Delete(ctx context.Context, id uint64) error
}

type EnrollmentStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Enrollment, error)
	List(ctx context.Context, f model.EnrollmentFilter) ([]model.Enrollment, int64, error)
	Apply(ctx context.Context, studentID, classID uint64) (*model.Enrollment, error)
	Review(ctx context.Context, id uint64, status model.EnrollmentStatus) (*model.ReviewOutcome, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.UserAccount, error)
	GetByUsername(ctx context.Context, username string) (*model.UserAccount, error)
	List(ctx context.Context, role model.Role, page model.PageQuery) ([]model.UserAccount, int64, error)
	Create(ctx context.Context, u *model.UserAccount) error
	UpdateStatus(ctx context.Context, id uint64, status model.AccountStatus) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
}

type DashboardStore interface {
	GetSummary(ctx context.Context) (*model.DashboardSummary, error)
}

// SessionStore remembers the single valid token ID per account.
type SessionStore interface {
	Put(ctx context.Context, userID uint64, jti string, ttl time.Duration) error
	Get(ctx context.Context, userID uint64) (string, error)
	Delete(ctx context.Context, userID uint64) error
}

// Publisher broadcasts mutation events to admin clients.
type Publisher interface {
	Publish(ctx context.Context, ev model.Event)
}

// PasswordHasher turns plaintext passwords into stored hashes.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// AccountKeeper provisions logins for people records and ends their
// sessions when the record goes away.
type AccountKeeper interface {
	PasswordHasher
	Logout(ctx context.Context, userID uint64) error
}
