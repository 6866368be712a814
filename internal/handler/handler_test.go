package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edutrain/training-backend/internal/middleware"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/edutrain/training-backend/internal/response"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/edutrain/training-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type fakeCourses struct {
	byID map[uint64]*model.Course
}

func newFakeCourses(courses ...*model.Course) *fakeCourses {
	f := &fakeCourses{byID: map[uint64]*model.Course{}}
	for _, c := range courses {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCourses) GetByID(_ context.Context, id uint64) (*model.Course, error) {
	if c, ok := f.byID[id]; ok && !c.DeletedAt.Valid {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCourses) GetByCodeUnscoped(_ context.Context, code string) (*model.Course, error) {
	for _, c := range f.byID {
		if c.CourseCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCourses) List(_ context.Context, p model.CourseFilter) ([]model.Course, int64, error) {
	var out []model.Course
	for _, c := range f.byID {
		if p.Status == "" || c.Status == p.Status {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCourses) Create(_ context.Context, c *model.Course) error {
	c.ID = uint64(len(f.byID) + 1)
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCourses) Restore(_ context.Context, c *model.Course) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCourses) Update(_ context.Context, c *model.Course) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCourses) SoftDelete(_ context.Context, id uint64) error {
	f.byID[id].DeletedAt = gorm.DeletedAt{Valid: true}
	return nil
}

func newCourseRouter(courses *fakeCourses) *gin.Engine {
	h := NewCourseHandler(service.NewCourseService(courses, nil, zerolog.Nop()), zerolog.Nop())
	r := gin.New()
	r.GET("/courses", h.List)
	r.GET("/courses/:id", h.Get)
	r.POST("/courses", h.Create)
	r.DELETE("/courses/:id", h.Delete)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestCourseHandlerCreate(t *testing.T) {
	courses := newFakeCourses(&model.Course{ID: 1, CourseCode: "GO-101", Name: "Go", Status: model.CourseStatusEnabled})
	r := newCourseRouter(courses)

	tests := []struct {
		name  string
		body  string
		want  int
		code  response.ErrCode
		field string
	}{
		{"missing name", `{"course_code":"PY-1","price":10}`, http.StatusBadRequest, response.ErrValidation, "name"},
		{"negative price", `{"course_code":"PY-1","name":"Python","price":-1}`, http.StatusBadRequest, response.ErrValidation, "price"},
		{"bad status", `{"course_code":"PY-1","name":"Python","price":1,"status":"archived"}`, http.StatusBadRequest, response.ErrValidation, "status"},
		{"duplicate code", `{"course_code":"GO-101","name":"Go again","price":1}`, http.StatusConflict, response.ErrCourseCodeTaken, ""},
		{"created", `{"course_code":"PY-1","name":"Python","price":"199.50"}`, http.StatusCreated, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(r, http.MethodPost, "/courses", tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.code == "" {
				if env.Error != nil {
					t.Fatalf("unexpected error %+v", env.Error)
				}
				return
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Fatalf("error = %+v, want %s", env.Error, tt.code)
			}
			if tt.field != "" && env.Error.Fields[tt.field] == "" {
				t.Fatalf("fields = %v, want entry for %s", env.Error.Fields, tt.field)
			}
		})
	}

	created, err := courses.GetByCodeUnscoped(context.Background(), "PY-1")
	if err != nil {
		t.Fatal("course PY-1 was not stored")
	}
	if created.Price.StringFixed(2) != "199.50" || created.Status != model.CourseStatusEnabled {
		t.Fatalf("stored course = %+v", created)
	}
}

func TestCourseHandlerDelete(t *testing.T) {
	courses := newFakeCourses(
		&model.Course{ID: 1, CourseCode: "ON", Status: model.CourseStatusEnabled},
		&model.Course{ID: 2, CourseCode: "OFF", Status: model.CourseStatusDisabled},
	)
	r := newCourseRouter(courses)

	tests := []struct {
		path string
		want int
		code response.ErrCode
	}{
		{"/courses/abc", http.StatusBadRequest, response.ErrInvalidID},
		{"/courses/0", http.StatusBadRequest, response.ErrInvalidID},
		{"/courses/9", http.StatusNotFound, response.ErrNotFound},
		{"/courses/1", http.StatusConflict, response.ErrCourseActive},
		{"/courses/2", http.StatusOK, ""},
		{"/courses/2", http.StatusNotFound, response.ErrNotFound},
	}
	for _, tt := range tests {
		w, env := do(r, http.MethodDelete, tt.path, "")
		if w.Code != tt.want {
			t.Fatalf("DELETE %s = %d, want %d", tt.path, w.Code, tt.want)
		}
		if tt.code != "" && (env.Error == nil || env.Error.Code != tt.code) {
			t.Fatalf("DELETE %s error = %+v, want %s", tt.path, env.Error, tt.code)
		}
	}
}

func TestCourseHandlerList(t *testing.T) {
	courses := newFakeCourses(
		&model.Course{ID: 1, CourseCode: "A", Status: model.CourseStatusEnabled},
		&model.Course{ID: 2, CourseCode: "B", Status: model.CourseStatusDisabled},
	)
	r := newCourseRouter(courses)

	w, env := do(r, http.MethodGet, "/courses?status=enabled&per_page=500", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Pagination == nil || env.Pagination.TotalItems != 1 || env.Pagination.PerPage != 100 {
		t.Fatalf("pagination = %+v", env.Pagination)
	}

	w, _ = do(r, http.MethodGet, "/courses?status=archived", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status filter = %d, want 400", w.Code)
	}
}

func TestFailWithMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
		code response.ErrCode
	}{
		{fmt.Errorf("apply: %w", repository.ErrInsufficientBalance), http.StatusPaymentRequired, response.ErrInsufficientBalance},
		{repository.ErrClassFull, http.StatusConflict, response.ErrClassFull},
		{fmt.Errorf("user: %w", repository.ErrUsernameTaken), http.StatusConflict, response.ErrUsernameTaken},
		{service.ErrAccountDisabled, http.StatusForbidden, response.ErrAccountDisabled},
		{service.ErrNotTeacherAccount, http.StatusForbidden, response.ErrTeacherAccessOnly},
		{service.ErrNotStudentAccount, http.StatusForbidden, response.ErrStudentAccessOnly},
		{fmt.Errorf("recharge: %w", repository.ErrValueOutOfRange), http.StatusUnprocessableEntity, response.ErrValueTooLarge},
		{fmt.Errorf("get: %w", repository.ErrNotFound), http.StatusNotFound, response.ErrNotFound},
		{errors.New("boom"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { failWith(c, zerolog.Nop(), tt.err) })
		w, env := do(r, http.MethodGet, "/", "")
		if w.Code != tt.want || env.Error == nil || env.Error.Code != tt.code {
			t.Errorf("failWith(%v) = %d %+v, want %d %s", tt.err, w.Code, env.Error, tt.want, tt.code)
		}
	}
}

func TestPageQueryDefaults(t *testing.T) {
	tests := []struct {
		query         string
		page, perPage int
	}{
		{"", 1, 10},
		{"?page=3&per_page=20", 3, 20},
		{"?page=-1&per_page=abc", 1, 10},
		{"?per_page=1000", 1, 100},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		got := pageQuery(c)
		if got.Page != tt.page || got.PerPage != tt.perPage {
			t.Errorf("pageQuery(%q) = %+v, want %d/%d", tt.query, got, tt.page, tt.perPage)
		}
	}
}

func withClaims(claims *service.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextKeyClaims, claims)
		}
		c.Next()
	}
}

func TestOwnStudentID(t *testing.T) {
	studentID := uint64(7)
	tests := []struct {
		name   string
		claims *service.Claims
		want   int
	}{
		{"no claims", nil, http.StatusUnauthorized},
		{"admin", &service.Claims{UserID: 1, Role: model.RoleAdmin}, http.StatusForbidden},
		{"student without record", &service.Claims{UserID: 2, Role: model.RoleStudent}, http.StatusForbidden},
		{"student", &service.Claims{UserID: 3, Role: model.RoleStudent, RelatedID: &studentID}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", withClaims(tt.claims), func(c *gin.Context) {
				id, ok := ownStudentID(c)
				if ok {
					c.String(http.StatusOK, "%d", id)
				}
			})
			w, _ := do(r, http.MethodGet, "/me", "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != "7" {
				t.Fatalf("body = %q, want 7", w.Body.String())
			}
		})
	}
}

func TestHealth(t *testing.T) {
	up := HealthCheck{Name: "postgres", Ping: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("refused") }}

	r := gin.New()
	r.GET("/ok", NewSystemHandler(zerolog.Nop(), nil, up).Health)
	r.GET("/degraded", NewSystemHandler(zerolog.Nop(), nil, up, down).Health)

	w, env := do(r, http.MethodGet, "/ok", "")
	if w.Code != http.StatusOK {
		t.Fatalf("healthy status = %d", w.Code)
	}
	data, _ := env.Data.(map[string]interface{})
	if data["status"] != "ok" {
		t.Fatalf("data = %v", env.Data)
	}

	w, env = do(r, http.MethodGet, "/degraded", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded status = %d", w.Code)
	}
	data, _ = env.Data.(map[string]interface{})
	deps, _ := data["dependencies"].(map[string]interface{})
	if deps["redis"] != "down" || deps["postgres"] != "up" {
		t.Fatalf("dependencies = %v", deps)
	}
}

func TestUpgraderOrigin(t *testing.T) {
	tests := []struct {
		allowed []string
		origin  string
		want    bool
	}{
		{nil, "http://evil.test", true},
		{[]string{"http://admin.test"}, "http://ADMIN.test", true},
		{[]string{"http://admin.test"}, "http://evil.test", false},
	}
	for _, tt := range tests {
		u := buildUpgrader(tt.allowed)
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Origin", tt.origin)
		if got := u.CheckOrigin(req); got != tt.want {
			t.Errorf("CheckOrigin(%v, %q) = %v, want %v", tt.allowed, tt.origin, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(90061 * time.Second); got != "1d 1h 1m 1s" {
		t.Errorf("formatDuration = %q", got)
	}
}
