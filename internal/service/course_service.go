package service

import (
	"context"
	"errors"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/rs/zerolog"
)

const entityCourse = "course"

type CourseService struct {
	courses CourseStore
	events  Publisher
	log     zerolog.Logger
}

func NewCourseService(courses CourseStore, events Publisher, log zerolog.Logger) *CourseService {
	return &CourseService{
		courses: courses,
		events:  events,
		log:     log.With().Str("component", "course_service").Logger(),
	}
}

func (s *CourseService) List(ctx context.Context, f model.CourseFilter) ([]model.Course, int64, error) {
	return s.courses.List(ctx, f)
}

func (s *CourseService) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// Create adds a course. A soft-deleted course with the same code is revived
// with the new fields instead.
func (s *CourseService) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	c := &model.Course{
		CourseCode:      req.CourseCode,
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		DifficultyLevel: req.DifficultyLevel,
		Duration:        req.Duration,
		Price:           req.Price,
		Status:          req.Status,
	}
	if c.Status == "" {
		c.Status = model.CourseStatusEnabled
	}

	existing, err := s.courses.GetByCodeUnscoped(ctx, req.CourseCode)
	switch {
	case err == nil && existing.DeletedAt.Valid:
		c.ID = existing.ID
		if err := s.courses.Restore(ctx, c); err != nil {
			return nil, err
		}
		s.log.Info().Uint64("course_id", c.ID).Str("course_code", c.CourseCode).Msg("Course restored")
	case err == nil:
		return nil, repository.ErrCourseCodeTaken
	case errors.Is(err, repository.ErrNotFound):
		if err := s.courses.Create(ctx, c); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	publish(ctx, s.events, model.EventCreated, entityCourse, c.ID)
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id uint64, req model.UpdateCourseRequest) (*model.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Description = req.Description
	c.Type = req.Type
	c.DifficultyLevel = req.DifficultyLevel
	c.Duration = req.Duration
	c.Price = req.Price
	c.Status = req.Status

	if err := s.courses.Update(ctx, c); err != nil {
		return nil, err
	}
	publish(ctx, s.events, model.EventUpdated, entityCourse, c.ID)
	return c, nil
}

// Delete soft-deletes a course. Only disabled courses may be deleted.
func (s *CourseService) Delete(ctx context.Context, id uint64) error {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != model.CourseStatusDisabled {
		return ErrCourseActive
	}
	if err := s.courses.SoftDelete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, model.EventDeleted, entityCourse, id)
	return nil
}
