package service

import (
	"context"
	"errors"
	"testing"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/rs/zerolog"
)

func TestEnrollmentListScoping(t *testing.T) {
	related := uint64(12)

	tests := []struct {
		name        string
		role        model.Role
		relatedID   *uint64
		wantStudent bool
		wantTeacher bool
		wantErr     error
	}{
		{"admin sees all", model.RoleAdmin, nil, false, false, nil},
		{"student sees own", model.RoleStudent, &related, true, false, nil},
		{"teacher sees own classes", model.RoleTeacher, &related, false, true, nil},
		{"student without link", model.RoleStudent, nil, false, false, ErrNotStudentAccount},
		{"teacher without link", model.RoleTeacher, nil, false, false, ErrNotTeacherAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEnrollments{}
			svc := NewEnrollmentService(store, nil, zerolog.Nop())

			_, _, err := svc.List(context.Background(), tt.role, tt.relatedID, model.EnrollmentFilter{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if (store.lastFilter.StudentID != nil) != tt.wantStudent {
				t.Errorf("StudentID scope = %v", store.lastFilter.StudentID)
			}
			if (store.lastFilter.TeacherID != nil) != tt.wantTeacher {
				t.Errorf("TeacherID scope = %v", store.lastFilter.TeacherID)
			}
		})
	}
}

func TestEnrollmentStudentCannotWidenScope(t *testing.T) {
	store := &fakeEnrollments{}
	svc := NewEnrollmentService(store, nil, zerolog.Nop())
	own, other := uint64(1), uint64(2)

	_, _, err := svc.List(context.Background(), model.RoleStudent, &own, model.EnrollmentFilter{StudentID: &other})
	if err != nil {
		t.Fatal(err)
	}
	if *store.lastFilter.StudentID != own {
		t.Fatalf("StudentID = %d, want %d", *store.lastFilter.StudentID, own)
	}
}

func TestEnrollmentApplyAndReviewPublish(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewEnrollmentService(&fakeEnrollments{}, events, zerolog.Nop())

	e, err := svc.Apply(context.Background(), 3, 4)
	if err != nil || e.StudentID != 3 || e.ClassID != 4 {
		t.Fatalf("Apply = %+v, %v", e, err)
	}

	outcome, err := svc.Review(context.Background(), e.ID, model.EnrollmentStatusRejected)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Refund.Equal(e.PaidAmount) {
		t.Fatalf("refund = %s", outcome.Refund)
	}
	if len(events.events) != 2 || events.events[1].Type != model.EventReviewed {
		t.Fatalf("events = %+v", events.events)
	}
}
