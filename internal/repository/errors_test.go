package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "uni_department_name"}, ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "teacher_department_id_fkey"}, ErrReferenced},
		{"numeric overflow", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}, ErrValueOutOfRange},
		{"wrapped overflow", fmt.Errorf("recharge: %w", &pgconn.PgError{Code: "22003"}), ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("mapError() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("mapError() = %v, want %v", got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	if got := mapError(other); got != other {
		t.Fatalf("unrelated error changed: %v", got)
	}
}

func TestWithCodeRetry(t *testing.T) {
	collision := &pgconn.PgError{Code: "23505", ConstraintName: studentCodeConstraint}

	t.Run("succeeds after collision", func(t *testing.T) {
		var attempts, resets int
		err := withCodeRetry(studentCodeConstraint, func() { resets++ }, func() error {
			attempts++
			if attempts == 1 {
				return collision
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 || resets != 1 {
			t.Fatalf("attempts=%d resets=%d, want 2 and 1", attempts, resets)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		var attempts int
		err := withCodeRetry(studentCodeConstraint, func() {}, func() error {
			attempts++
			return collision
		})
		if !errors.Is(err, ErrCodeExhausted) {
			t.Fatalf("err = %v, want ErrCodeExhausted", err)
		}
		if attempts != codeRetries {
			t.Fatalf("attempts = %d, want %d", attempts, codeRetries)
		}
	})

	t.Run("other constraint is not retried", func(t *testing.T) {
		var attempts int
		other := &pgconn.PgError{Code: "23505", ConstraintName: usernameConstraint}
		err := withCodeRetry(studentCodeConstraint, func() {}, func() error {
			attempts++
			return other
		})
		if err != other || attempts != 1 {
			t.Fatalf("err=%v attempts=%d, want passthrough after one attempt", err, attempts)
		}
	})
}

func TestFailsCheck(t *testing.T) {
	err := fmt.Errorf("update: %w", &pgconn.PgError{Code: "23514", ConstraintName: classCapacityConstraint})
	if !failsCheck(err, classCapacityConstraint) {
		t.Fatal("expected capacity check failure")
	}
	if failsCheck(err, classDatesConstraint) {
		t.Fatal("dates constraint should not match")
	}
}
