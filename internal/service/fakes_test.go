package service

import (
	"context"
	"sync"
	"time"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type fakeUsers struct {
	byID map[uint64]*model.UserAccount
}

func newFakeUsers(users ...*model.UserAccount) *fakeUsers {
	f := &fakeUsers{byID: map[uint64]*model.UserAccount{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.UserAccount, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.UserAccount, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) List(context.Context, model.Role, model.PageQuery) ([]model.UserAccount, int64, error) {
	return nil, 0, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.UserAccount) error {
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return repository.ErrUsernameTaken
		}
	}
	u.ID = uint64(len(f.byID) + 1)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdateStatus(_ context.Context, id uint64, status model.AccountStatus) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeSessions struct {
	mu   sync.Mutex
	jtis map[uint64]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{jtis: map[uint64]string{}}
}

func (f *fakeSessions) Put(_ context.Context, userID uint64, jti string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jtis[userID] = jti
	return nil
}

func (f *fakeSessions) Get(_ context.Context, userID uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	jti, ok := f.jtis[userID]
	if !ok {
		return "", ErrNoSession
	}
	return jti, nil
}

func (f *fakeSessions) Delete(_ context.Context, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jtis, userID)
	return nil
}

type recordingPublisher struct {
	events []model.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev model.Event) {
	p.events = append(p.events, ev)
}

type plainHasher struct{}

func (plainHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

// accountKeeper hashes like plainHasher and records ended sessions.
type accountKeeper struct {
	plainHasher
	loggedOut []uint64
}

func (k *accountKeeper) Logout(_ context.Context, userID uint64) error {
	k.loggedOut = append(k.loggedOut, userID)
	return nil
}

type fakeCourses struct {
	rows     map[uint64]*model.Course
	restored bool
}

func newFakeCourses(courses ...*model.Course) *fakeCourses {
	f := &fakeCourses{rows: map[uint64]*model.Course{}}
	for _, c := range courses {
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeCourses) GetByID(_ context.Context, id uint64) (*model.Course, error) {
	c, ok := f.rows[id]
	if !ok || c.DeletedAt.Valid {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourses) GetByCodeUnscoped(_ context.Context, code string) (*model.Course, error) {
	for _, c := range f.rows {
		if c.CourseCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCourses) List(context.Context, model.CourseFilter) ([]model.Course, int64, error) {
	return nil, 0, nil
}

func (f *fakeCourses) Create(_ context.Context, c *model.Course) error {
	c.ID = uint64(len(f.rows) + 1)
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCourses) Restore(_ context.Context, c *model.Course) error {
	f.restored = true
	cp := *c
	cp.DeletedAt.Valid = false
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCourses) Update(_ context.Context, c *model.Course) error {
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCourses) SoftDelete(_ context.Context, id uint64) error {
	f.rows[id].DeletedAt.Valid = true
	return nil
}

type fakeTeachers struct {
	rows map[uint64]*model.Teacher
}

func (f *fakeTeachers) GetByID(_ context.Context, id uint64) (*model.Teacher, error) {
	if t, ok := f.rows[id]; ok {
		return t, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTeachers) List(context.Context, model.TeacherFilter) ([]model.Teacher, int64, error) {
	return nil, 0, nil
}

func (f *fakeTeachers) CreateWithAccount(_ context.Context, t *model.Teacher, hash string) (*model.UserAccount, error) {
	_ = t.BeforeCreate(nil)
	t.ID = uint64(len(f.rows) + 1)
	f.rows[t.ID] = t
	return &model.UserAccount{Username: t.TeacherCode, PasswordHash: hash, Role: model.RoleTeacher, RelatedID: &t.ID}, nil
}

func (f *fakeTeachers) Update(context.Context, *model.Teacher) error { return nil }
func (f *fakeTeachers) Delete(context.Context, uint64) (uint64, error) {
	return 0, nil
}

type fakeDepartments struct {
	rows map[uint64]*model.Department
}

func (f *fakeDepartments) GetAll(context.Context) ([]model.Department, error) { return nil, nil }

func (f *fakeDepartments) GetByID(_ context.Context, id uint64) (*model.Department, error) {
	if d, ok := f.rows[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDepartments) Create(context.Context, *model.Department) error { return nil }
func (f *fakeDepartments) Update(context.Context, *model.Department) error { return nil }
func (f *fakeDepartments) Delete(context.Context, uint64) error            { return nil }

type fakeClasses struct {
	rows    map[uint64]*model.Class
	created []*model.Class
	updated []*model.Class
	today   datatypes.Date
}

func (f *fakeClasses) GetByID(_ context.Context, id uint64) (*model.Class, error) {
	if c, ok := f.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeClasses) List(context.Context, model.ClassFilter) ([]model.Class, int64, error) {
	return nil, 0, nil
}

func (f *fakeClasses) ListAvailable(context.Context, uint64) ([]model.Class, error) { return nil, nil }

func (f *fakeClasses) Create(_ context.Context, c *model.Class) error {
	_ = c.BeforeCreate(nil)
	c.ID = uint64(len(f.rows) + 1)
	f.rows[c.ID] = c
	f.created = append(f.created, c)
	return nil
}

func (f *fakeClasses) Update(_ context.Context, c *model.Class) error {
	f.updated = append(f.updated, c)
	return nil
}

func (f *fakeClasses) Delete(context.Context, uint64) error { return nil }

func (f *fakeClasses) SyncStatuses(_ context.Context, today datatypes.Date) (int64, error) {
	f.today = today
	return 2, nil
}

type fakeStudents struct {
	rows    []*model.Student
	failRow int
}

func (f *fakeStudents) GetByID(_ context.Context, id uint64) (*model.Student, error) {
	for _, s := range f.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStudents) GetByCode(_ context.Context, code string) (*model.Student, error) {
	for _, s := range f.rows {
		if s.StudentCode == code {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStudents) List(context.Context, model.StudentFilter) ([]model.Student, int64, error) {
	return nil, 0, nil
}

func (f *fakeStudents) ListAll(context.Context) ([]model.Student, error) {
	out := make([]model.Student, len(f.rows))
	for i, s := range f.rows {
		out[i] = *s
	}
	return out, nil
}

func (f *fakeStudents) CreateWithAccount(_ context.Context, s *model.Student, hash string) (*model.UserAccount, error) {
	_ = s.BeforeCreate(nil)
	s.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, s)
	return &model.UserAccount{Username: s.StudentCode, PasswordHash: hash, Role: model.RoleStudent, RelatedID: &s.ID}, nil
}

func (f *fakeStudents) CreateBatch(ctx context.Context, students []*model.Student, hash string) []error {
	errs := make([]error, len(students))
	for i, s := range students {
		if f.failRow > 0 && i == f.failRow-1 {
			errs[i] = repository.ErrDuplicate
			continue
		}
		_, errs[i] = f.CreateWithAccount(ctx, s, hash)
	}
	return errs
}

func (f *fakeStudents) Update(context.Context, *model.Student) error { return nil }

// Delete reports the account ID as 100+id for students that exist.
func (f *fakeStudents) Delete(_ context.Context, id uint64) (uint64, error) {
	for i, s := range f.rows {
		if s.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return 100 + id, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (f *fakeStudents) Recharge(_ context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	s, err := f.GetByID(context.Background(), id)
	if err != nil {
		return decimal.Zero, err
	}
	s.Balance = s.Balance.Add(amount)
	return s.Balance, nil
}

type fakeEnrollments struct {
	lastFilter model.EnrollmentFilter
}

func (f *fakeEnrollments) GetByID(context.Context, uint64) (*model.Enrollment, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeEnrollments) List(_ context.Context, filter model.EnrollmentFilter) ([]model.Enrollment, int64, error) {
	f.lastFilter = filter
	return []model.Enrollment{}, 0, nil
}

func (f *fakeEnrollments) Apply(_ context.Context, studentID, classID uint64) (*model.Enrollment, error) {
	return &model.Enrollment{ID: 9, StudentID: studentID, ClassID: classID, PaidAmount: decimal.NewFromInt(100)}, nil
}

func (f *fakeEnrollments) Review(_ context.Context, id uint64, status model.EnrollmentStatus) (*model.ReviewOutcome, error) {
	refund := decimal.Zero
	if status == model.EnrollmentStatusRejected {
		refund = decimal.NewFromInt(100)
	}
	return &model.ReviewOutcome{Enrollment: &model.Enrollment{ID: id, Status: status}, Refund: refund}, nil
}
