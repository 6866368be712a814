package service

import (
	"context"
	"fmt"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const entityStudent = "student"

// StudentService manages the student roster and balances.
type StudentService struct {
	students StudentStore
	accounts AccountKeeper
	events   Publisher
	cfg      *config.Config
	log      zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(students StudentStore, accounts AccountKeeper, events Publisher, cfg *config.Config, log zerolog.Logger) *StudentService {
	return &StudentService{
		students: students,
		accounts: accounts,
		events:   events,
		cfg:      cfg,
		log:      log.With().Str("component", "student_service").Logger(),
	}
}

func (s *StudentService) List(ctx context.Context, f model.StudentFilter) ([]model.Student, int64, error) {
	return s.students.List(ctx, f)
}

func (s *StudentService) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
	return s.students.GetByID(ctx, id)
}

// Create registers a student and provisions a login whose username is the
// generated student code.
func (s *StudentService) Create(ctx context.Context, req model.CreateStudentRequest) (*model.Student, *model.UserAccount, error) {
	st, err := studentFromRequest(req)
	if err != nil {
		return nil, nil, err
	}

	hash, err := s.accounts.HashPassword(s.cfg.DefaultAccountPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.students.CreateWithAccount(ctx, st, hash)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Uint64("student_id", st.ID).Str("student_code", st.StudentCode).Msg("Student registered")
	publish(ctx, s.events, model.EventCreated, entityStudent, st.ID)
	return st, account, nil
}

func (s *StudentService) Update(ctx context.Context, id uint64, req model.UpdateStudentRequest) (*model.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyStudentUpdate(st, req); err != nil {
		return nil, err
	}
	if err := s.students.Update(ctx, st); err != nil {
		return nil, err
	}
	publish(ctx, s.events, model.EventUpdated, entityStudent, id)
	return st, nil
}

// Delete removes the student, its login and its enrollments.
func (s *StudentService) Delete(ctx context.Context, id uint64) error {
	accountID, err := s.students.Delete(ctx, id)
	if err != nil {
		return err
	}
	if accountID != 0 {
		if err := s.accounts.Logout(ctx, accountID); err != nil {
			s.log.Warn().Err(err).Uint64("user_id", accountID).Msg("Failed to end session of deleted account")
		}
	}
	publish(ctx, s.events, model.EventDeleted, entityStudent, id)
	return nil
}

// Recharge tops up the balance and returns the new amount.
func (s *StudentService) Recharge(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	balance, err := s.students.Recharge(ctx, id, amount)
	if err != nil {
		return decimal.Zero, err
	}
	s.log.Info().Uint64("student_id", id).Str("amount", amount.StringFixed(2)).Msg("Balance recharged")
	publish(ctx, s.events, model.EventUpdated, entityStudent, id)
	return balance, nil
}

// applyStudentUpdate copies the editable fields of req onto st. Code,
// balance and registration date are never touched.
func applyStudentUpdate(st *model.Student, req model.UpdateStudentRequest) error {
	dob, err := model.ParseDate(req.DateOfBirth)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	st.Name = req.Name
	st.Gender = req.Gender
	st.Phone = req.Phone
	st.Email = req.Email
	st.DateOfBirth = dob
	st.Address = req.Address
	st.Status = req.Status
	return nil
}

func studentFromRequest(req model.CreateStudentRequest) (*model.Student, error) {
	dob, err := model.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return &model.Student{
		Name:        req.Name,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Email:       req.Email,
		DateOfBirth: dob,
		Address:     req.Address,
		Balance:     decimal.Zero,
	}, nil
}
