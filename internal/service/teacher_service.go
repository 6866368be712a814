package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/rs/zerolog"
)

const entityTeacher = "teacher"

type TeacherService struct {
	teachers    TeacherStore
	departments DepartmentStore
	accounts    AccountKeeper
	events      Publisher
	cfg         *config.Config
	log         zerolog.Logger
}

func NewTeacherService(teachers TeacherStore, departments DepartmentStore, accounts AccountKeeper, events Publisher, cfg *config.Config, log zerolog.Logger) *TeacherService {
	return &TeacherService{
		teachers:    teachers,
		departments: departments,
		accounts:    accounts,
		events:      events,
		cfg:         cfg,
		log:         log.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *TeacherService) List(ctx context.Context, f model.TeacherFilter) ([]model.Teacher, int64, error) {
	return s.teachers.List(ctx, f)
}

func (s *TeacherService) GetByID(ctx context.Context, id uint64) (*model.Teacher, error) {
	return s.teachers.GetByID(ctx, id)
}

// Create hires a teacher and provisions its login.
func (s *TeacherService) Create(ctx context.Context, req model.CreateTeacherRequest) (*model.Teacher, *model.UserAccount, error) {
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, nil, err
	}
	hireDate, err := model.ParseDate(req.HireDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	t := &model.Teacher{
		Name:         req.Name,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
		Title:        req.Title,
		HireDate:     hireDate,
	}

	hash, err := s.accounts.HashPassword(s.cfg.DefaultAccountPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}
	account, err := s.teachers.CreateWithAccount(ctx, t, hash)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Uint64("teacher_id", t.ID).Str("teacher_code", t.TeacherCode).Msg("Teacher hired")
	publish(ctx, s.events, model.EventCreated, entityTeacher, t.ID)
	return t, account, nil
}

func (s *TeacherService) Update(ctx context.Context, id uint64, req model.UpdateTeacherRequest) (*model.Teacher, error) {
	t, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	hireDate, err := model.ParseDate(req.HireDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	t.Name = req.Name
	t.Gender = req.Gender
	t.Phone = req.Phone
	t.Email = req.Email
	t.DepartmentID = req.DepartmentID
	t.Department = nil
	t.Title = req.Title
	t.HireDate = hireDate
	t.Status = req.Status

	if err := s.teachers.Update(ctx, t); err != nil {
		return nil, err
	}
	publish(ctx, s.events, model.EventUpdated, entityTeacher, id)
	return t, nil
}

func (s *TeacherService) Delete(ctx context.Context, id uint64) error {
	accountID, err := s.teachers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if accountID != 0 {
		if err := s.accounts.Logout(ctx, accountID); err != nil {
			s.log.Warn().Err(err).Uint64("user_id", accountID).Msg("Failed to end session of deleted account")
		}
	}
	publish(ctx, s.events, model.EventDeleted, entityTeacher, id)
	return nil
}

func (s *TeacherService) checkDepartment(ctx context.Context, id *uint64) error {
	if id == nil {
		return nil
	}
	if _, err := s.departments.GetByID(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return nil
}
