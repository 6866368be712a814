package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator map[string]*service.Claims

func (s stubValidator) ValidateToken(token string) (*service.Claims, error) {
	if token == "expired" {
		return nil, fmt.Errorf("parse token: %w", jwt.ErrTokenExpired)
	}
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

type stubSessions struct{ valid map[uint64]string }

func (s stubSessions) ValidateSession(_ context.Context, userID uint64, jti string) error {
	if s.valid[userID] != jti {
		return service.ErrSessionInvalidated
	}
	return nil
}

func claimsFor(id uint64, role model.Role, jti string) *service.Claims {
	c := &service.Claims{UserID: id, Role: role}
	c.ID = jti
	return c
}

func newAuthRouter(roles ...model.Role) *gin.Engine {
	tokens := stubValidator{
		"admin":   claimsFor(1, model.RoleAdmin, "a"),
		"student": claimsFor(2, model.RoleStudent, "s"),
		"stale":   claimsFor(2, model.RoleStudent, "old"),
	}
	sessions := stubSessions{valid: map[uint64]string{1: "a", 2: "s"}}

	r := gin.New()
	r.GET("/x", RequireJWT(tokens), CheckSingleSession(sessions), RequireRole(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, string(GetClaims(c).Role))
	})
	return r
}

func TestAuthChain(t *testing.T) {
	tests := []struct {
		name   string
		roles  []model.Role
		header string
		query  string
		want   int
		code   string
	}{
		{"missing token", []model.Role{model.RoleAdmin}, "", "", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"garbage token", []model.Role{model.RoleAdmin}, "Bearer nope", "", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"expired token", []model.Role{model.RoleAdmin}, "Bearer expired", "", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"stale session", []model.Role{model.RoleStudent}, "Bearer stale", "", http.StatusUnauthorized, "SESSION_INVALIDATED"},
		{"wrong role", []model.Role{model.RoleAdmin}, "Bearer student", "", http.StatusForbidden, "ADMIN_ACCESS_ONLY"},
		{"admin ok", []model.Role{model.RoleAdmin}, "Bearer admin", "", http.StatusOK, ""},
		{"query token", []model.Role{model.RoleAdmin, model.RoleStudent}, "", "student", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.roles...)
			url := "/x"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.code != "" && !strings.Contains(w.Body.String(), tt.code) {
				t.Fatalf("body %s missing %s", w.Body.String(), tt.code)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Unix(0, 0)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if hit() != http.StatusNoContent || hit() != http.StatusNoContent {
		t.Fatal("first two requests should pass")
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", code)
	}

	now = now.Add(time.Minute)
	if code := hit(); code != http.StatusNoContent {
		t.Fatalf("after refill = %d", code)
	}

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	if len(rl.visitors) != 0 {
		t.Fatal("idle visitor not evicted")
	}
}

func TestBrotli(t *testing.T) {
	payload := strings.Repeat("training ", 500)

	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64, SkipPaths: []string{"/raw"}}))
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, payload) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/raw", func(c *gin.Context) { c.String(http.StatusOK, payload) })

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/big")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("large body not compressed: %v", w.Header())
	}
	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil || string(body) != payload {
		t.Fatalf("decompressed body mismatch (err=%v)", err)
	}

	w = get("/small")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Fatalf("small body altered: %v %q", w.Header(), w.Body.String())
	}

	w = get("/raw")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != payload {
		t.Fatal("skipped path was compressed")
	}
}
