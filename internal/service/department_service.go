package service

import (
	"context"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/rs/zerolog"
)

const entityDepartment = "department"

type DepartmentService struct {
	departments DepartmentStore
	events      Publisher
	log         zerolog.Logger
}

func NewDepartmentService(departments DepartmentStore, events Publisher, log zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		events:      events,
		log:         log.With().Str("component", "department_service").Logger(),
	}
}

func (s *DepartmentService) GetAll(ctx context.Context) ([]model.Department, error) {
	return s.departments.GetAll(ctx)
}

func (s *DepartmentService) GetByID(ctx context.Context, id uint64) (*model.Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *DepartmentService) Create(ctx context.Context, req model.DepartmentRequest) (*model.Department, error) {
	d := &model.Department{Name: req.Name, Description: req.Description}
	if err := s.departments.Create(ctx, d); err != nil {
		return nil, err
	}
	publish(ctx, s.events, model.EventCreated, entityDepartment, d.ID)
	return d, nil
}

func (s *DepartmentService) Update(ctx context.Context, id uint64, req model.DepartmentRequest) (*model.Department, error) {
	d := &model.Department{ID: id, Name: req.Name, Description: req.Description}
	if err := s.departments.Update(ctx, d); err != nil {
		return nil, err
	}
	publish(ctx, s.events, model.EventUpdated, entityDepartment, id)
	return s.departments.GetByID(ctx, id)
}

// Delete removes the department; its teachers keep a NULL department.
func (s *DepartmentService) Delete(ctx context.Context, id uint64) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, model.EventDeleted, entityDepartment, id)
	return nil
}
