package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/rs/zerolog"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		BcryptCost:             4,
		DefaultAccountPassword: "123456",
	}
}

func newTestAuth(t *testing.T, users ...*model.UserAccount) (*AuthService, *fakeSessions) {
	t.Helper()
	sessions := newFakeSessions()
	auth := NewAuthService(testConfig(), newFakeUsers(users...), sessions, zerolog.Nop())
	return auth, sessions
}

func mustHash(t *testing.T, auth *AuthService, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	return hash
}

func TestLoginIssuesTokenAndSession(t *testing.T) {
	auth, sessions := newTestAuth(t)
	related := uint64(7)
	user := &model.UserAccount{ID: 3, Username: "STD1", Role: model.RoleStudent, RelatedID: &related, Status: model.AccountStatusEnabled}
	user.PasswordHash = mustHash(t, auth, "123456")
	auth.users = newFakeUsers(user)

	resp, err := auth.Login(context.Background(), "STD1", "123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 3 || claims.Role != model.RoleStudent || claims.RelatedID == nil || *claims.RelatedID != 7 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if sessions.jtis[3] != claims.ID {
		t.Fatalf("session jti = %q, want %q", sessions.jtis[3], claims.ID)
	}
	if err := auth.ValidateSession(context.Background(), 3, claims.ID); err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	auth, _ := newTestAuth(t)
	hash := mustHash(t, auth, "secret1")
	auth.users = newFakeUsers(
		&model.UserAccount{ID: 1, Username: "admin", PasswordHash: hash, Role: model.RoleAdmin, Status: model.AccountStatusEnabled},
		&model.UserAccount{ID: 2, Username: "gone", PasswordHash: hash, Role: model.RoleTeacher, Status: model.AccountStatusDisabled},
	)

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"unknown user", "nobody", "secret1", ErrInvalidCredentials},
		{"wrong password", "admin", "nope", ErrInvalidCredentials},
		{"disabled", "gone", "secret1", ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewLoginInvalidatesPreviousToken(t *testing.T) {
	auth, _ := newTestAuth(t)
	user := &model.UserAccount{ID: 1, Username: "admin", Role: model.RoleAdmin, Status: model.AccountStatusEnabled}
	user.PasswordHash = mustHash(t, auth, "secret1")
	auth.users = newFakeUsers(user)

	first, _ := auth.Login(context.Background(), "admin", "secret1")
	second, _ := auth.Login(context.Background(), "admin", "secret1")

	firstClaims, _ := auth.ValidateToken(first.Token)
	secondClaims, _ := auth.ValidateToken(second.Token)

	if err := auth.ValidateSession(context.Background(), 1, firstClaims.ID); !errors.Is(err, ErrSessionInvalidated) {
		t.Fatalf("old token still valid: %v", err)
	}
	if err := auth.ValidateSession(context.Background(), 1, secondClaims.ID); err != nil {
		t.Fatalf("new token rejected: %v", err)
	}

	if err := auth.Logout(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := auth.ValidateSession(context.Background(), 1, secondClaims.ID); !errors.Is(err, ErrSessionInvalidated) {
		t.Fatalf("token valid after logout: %v", err)
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	auth, _ := newTestAuth(t)
	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour, BcryptCost: 4}, newFakeUsers(), newFakeSessions(), zerolog.Nop())

	token, err := other.GenerateToken(context.Background(), &model.UserAccount{ID: 1, Role: model.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestUserServiceDisableDropsSession(t *testing.T) {
	auth, sessions := newTestAuth(t)
	users := newFakeUsers(&model.UserAccount{ID: 5, Username: "t1", Role: model.RoleTeacher, Status: model.AccountStatusEnabled})
	sessions.jtis[5] = "jti"
	svc := NewUserService(users, auth, sessions, zerolog.Nop())

	if err := svc.UpdateStatus(context.Background(), 5, model.AccountStatusDisabled); err != nil {
		t.Fatal(err)
	}
	if _, ok := sessions.jtis[5]; ok {
		t.Fatal("session kept after disabling account")
	}
	if users.byID[5].Status != model.AccountStatusDisabled {
		t.Fatal("status not updated")
	}
}

func TestUserServiceChangePassword(t *testing.T) {
	auth, sessions := newTestAuth(t)
	user := &model.UserAccount{ID: 1, Username: "admin", Role: model.RoleAdmin, Status: model.AccountStatusEnabled}
	user.PasswordHash = mustHash(t, auth, "old-pass")
	users := newFakeUsers(user)
	svc := NewUserService(users, auth, sessions, zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), 1, "wrong", "new-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(context.Background(), 1, "old-pass", "new-pass"); err != nil {
		t.Fatal(err)
	}
	if err := auth.CheckPassword(users.byID[1].PasswordHash, "new-pass"); err != nil {
		t.Fatal("new password not stored")
	}
}
