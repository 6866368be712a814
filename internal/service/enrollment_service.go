package service

import (
	"context"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/rs/zerolog"
)

const entityEnrollment = "enrollment"

// EnrollmentService handles applications and their review.
type EnrollmentService struct {
	enrollments EnrollmentStore
	events      Publisher
	log         zerolog.Logger
}

func NewEnrollmentService(enrollments EnrollmentStore, events Publisher, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		events:      events,
		log:         log.With().Str("component", "enrollment_service").Logger(),
	}
}

// List scopes the filter to what the caller may see: students their own
// enrollments, teachers those of their classes, admins everything.
func (s *EnrollmentService) List(ctx context.Context, role model.Role, relatedID *uint64, f model.EnrollmentFilter) ([]model.Enrollment, int64, error) {
	switch role {
	case model.RoleAdmin:
	case model.RoleStudent:
		if relatedID == nil {
			return nil, 0, ErrNotStudentAccount
		}
		f.StudentID = relatedID
	case model.RoleTeacher:
		if relatedID == nil {
			return nil, 0, ErrNotTeacherAccount
		}
		f.TeacherID = relatedID
	default:
		return []model.Enrollment{}, 0, nil
	}
	return s.enrollments.List(ctx, f)
}

// Apply enrolls the student in the class, charging the course price.
func (s *EnrollmentService) Apply(ctx context.Context, studentID, classID uint64) (*model.Enrollment, error) {
	e, err := s.enrollments.Apply(ctx, studentID, classID)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Uint64("enrollment_id", e.ID).
		Uint64("student_id", studentID).
		Uint64("class_id", classID).
		Str("paid", e.PaidAmount.StringFixed(2)).
		Msg("Enrollment submitted")
	publish(ctx, s.events, model.EventCreated, entityEnrollment, e.ID)
	return e, nil
}

// Review sets the review outcome of an enrollment.
func (s *EnrollmentService) Review(ctx context.Context, id uint64, status model.EnrollmentStatus) (*model.ReviewOutcome, error) {
	outcome, err := s.enrollments.Review(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Uint64("enrollment_id", id).
		Str("status", string(status)).
		Str("refund", outcome.Refund.StringFixed(2)).
		Msg("Enrollment reviewed")
	publish(ctx, s.events, model.EventReviewed, entityEnrollment, id)
	return outcome, nil
}
