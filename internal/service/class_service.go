package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/rs/zerolog"
)

const entityClass = "class"

// ClassService manages scheduled classes.
type ClassService struct {
	classes  ClassStore
	courses  CourseStore
	teachers TeacherStore
	events   Publisher
	now      func() time.Time
	log      zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(classes ClassStore, courses CourseStore, teachers TeacherStore, events Publisher, log zerolog.Logger) *ClassService {
	return &ClassService{
		classes:  classes,
		courses:  courses,
		teachers: teachers,
		events:   events,
		now:      time.Now,
		log:      log.With().Str("component", "class_service").Logger(),
	}
}

func (s *ClassService) List(ctx context.Context, f model.ClassFilter) ([]model.Class, int64, error) {
	return s.classes.List(ctx, f)
}

func (s *ClassService) GetByID(ctx context.Context, id uint64) (*model.Class, error) {
	return s.classes.GetByID(ctx, id)
}

// ListAvailable returns the classes a student may still apply to.
func (s *ClassService) ListAvailable(ctx context.Context, studentID uint64) ([]model.Class, error) {
	return s.classes.ListAvailable(ctx, studentID)
}

// Create opens a class. Referenced course and teacher must exist. A class
// whose dates are already under way starts in the status the next sync
// would give it.
func (s *ClassService) Create(ctx context.Context, req model.CreateClassRequest) (*model.Class, error) {
	c := &model.Class{
		Name:      req.Name,
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		Capacity:  req.Capacity,
	}
	if err := s.applySchedule(c, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	c.Status = c.StatusOn(model.Today(s.now()))
	if err := s.checkReferences(ctx, c); err != nil {
		return nil, err
	}
	if err := s.classes.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Uint64("class_id", c.ID).Str("class_code", c.ClassCode).Msg("Class opened")
	publish(ctx, s.events, model.EventCreated, entityClass, c.ID)
	return c, nil
}

// Update edits a class. Capacity may not drop below the approved count.
func (s *ClassService) Update(ctx context.Context, id uint64, req model.UpdateClassRequest) (*model.Class, error) {
	c, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Capacity != nil && *req.Capacity < c.CurrentCount {
		return nil, repository.ErrCapacityBelowCount
	}

	c.Name = req.Name
	c.CourseID = req.CourseID
	c.TeacherID = req.TeacherID
	c.Capacity = req.Capacity
	c.Status = req.Status
	c.Course, c.Teacher = nil, nil
	if err := s.applySchedule(c, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, c); err != nil {
		return nil, err
	}
	if err := s.classes.Update(ctx, c); err != nil {
		return nil, err
	}

	publish(ctx, s.events, model.EventUpdated, entityClass, id)
	return c, nil
}

func (s *ClassService) Delete(ctx context.Context, id uint64) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, model.EventDeleted, entityClass, id)
	return nil
}

// SyncStatuses advances class phases by date and returns the changed count.
func (s *ClassService) SyncStatuses(ctx context.Context, now time.Time) (int64, error) {
	changed, err := s.classes.SyncStatuses(ctx, model.Today(now))
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		publish(ctx, s.events, model.EventUpdated, entityClass, 0)
	}
	return changed, nil
}

func (s *ClassService) applySchedule(c *model.Class, start, end string) error {
	startDate, err := model.ParseDate(start)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	endDate, err := model.ParseDate(end)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if startDate != nil && endDate != nil && time.Time(*endDate).Before(time.Time(*startDate)) {
		return repository.ErrInvalidDateRange
	}
	c.StartDate = startDate
	c.EndDate = endDate
	return nil
}

func (s *ClassService) checkReferences(ctx context.Context, c *model.Class) error {
	if c.CourseID != nil {
		if _, err := s.courses.GetByID(ctx, *c.CourseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
	}
	if c.TeacherID != nil {
		if _, err := s.teachers.GetByID(ctx, *c.TeacherID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTeacherNotFound
			}
			return err
		}
	}
	return nil
}
