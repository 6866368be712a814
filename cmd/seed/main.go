package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/database"
	"github.com/edutrain/training-backend/internal/logger"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/shopspring/decimal"
)

var departments = []model.DepartmentRequest{
	{Name: "Software Engineering", Description: "Programming and system design tracks"},
	{Name: "Data & Analytics", Description: "Data processing, statistics and BI"},
}

var courses = []model.CreateCourseRequest{
	{CourseCode: "GO-101", Name: "Go Fundamentals", Type: "programming", DifficultyLevel: "beginner", Price: decimal.NewFromInt(1999)},
	{CourseCode: "SQL-201", Name: "Relational Databases", Type: "data", DifficultyLevel: "intermediate", Price: decimal.NewFromInt(2499)},
	{CourseCode: "K8S-301", Name: "Running Services on Kubernetes", Type: "operations", DifficultyLevel: "advanced", Price: decimal.NewFromInt(3999)},
}

var teacherNames = []string{"Lin Wei", "Zhang Min", "Chen Jie"}

var studentNames = []string{
	"Wang Fang", "Li Na", "Liu Yang", "Zhao Lei", "Sun Li",
	"Zhou Tao", "Wu Hao", "Xu Jing", "Ma Chao", "Hu Yan",
	"Guo Qiang", "He Ping", "Gao Yun", "Lin Tao", "Luo Ming",
	"Zheng Hui", "Liang Yu", "Song Jia", "Tang Rui", "Han Mei",
}

func main() {
	students := flag.Int("students", len(studentNames), "Number of demo students to create")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	db, err := database.NewGorm(pool, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open GORM session")
	}

	courseRepo := repository.NewCourseRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Seeding publishes no events; the dashboard cache expires on its own.
	authService := service.NewAuthService(cfg, userRepo, nil, log)
	departmentService := service.NewDepartmentService(departmentRepo, nil, log)
	courseService := service.NewCourseService(courseRepo, nil, log)
	teacherService := service.NewTeacherService(teacherRepo, departmentRepo, authService, nil, cfg, log)
	studentService := service.NewStudentService(repository.NewStudentRepository(db), authService, nil, cfg, log)
	classService := service.NewClassService(repository.NewClassRepository(db), courseRepo, teacherRepo, nil, log)

	fmt.Println("=== Seeding demo data ===")

	deptIDs, err := seedDepartments(ctx, departmentService, departmentRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed departments")
	}
	fmt.Printf("Departments ready: %d\n", len(deptIDs))

	courseIDs := make([]uint64, 0, len(courses))
	for _, req := range courses {
		c, err := courseService.Create(ctx, req)
		if errors.Is(err, repository.ErrCourseCodeTaken) {
			c, err = courseRepo.GetByCodeUnscoped(ctx, req.CourseCode)
		}
		if err != nil {
			log.Fatal().Err(err).Str("course_code", req.CourseCode).Msg("Failed to seed course")
		}
		courseIDs = append(courseIDs, c.ID)
	}
	fmt.Printf("Courses ready: %d\n", len(courseIDs))

	teacherIDs := make([]uint64, 0, len(teacherNames))
	for i, name := range teacherNames {
		dept := deptIDs[i%len(deptIDs)]
		t, account, err := teacherService.Create(ctx, model.CreateTeacherRequest{
			Name:         name,
			DepartmentID: &dept,
			Title:        "Lecturer",
			HireDate:     time.Now().AddDate(-1-i, 0, 0).Format(model.DateLayout),
		})
		if err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("Failed to seed teacher")
		}
		teacherIDs = append(teacherIDs, t.ID)
		fmt.Printf("Teacher %s -> login %s\n", t.Name, account.Username)
	}

	today := time.Now()
	for i, courseID := range courseIDs {
		teacherID := teacherIDs[i%len(teacherIDs)]
		capacity := 20
		start := today.AddDate(0, 0, 7*(i-1))
		_, err := classService.Create(ctx, model.CreateClassRequest{
			Name:      fmt.Sprintf("%s cohort %s", courses[i].Name, start.Format("2006-01")),
			CourseID:  &courseID,
			TeacherID: &teacherID,
			StartDate: start.Format(model.DateLayout),
			EndDate:   start.AddDate(0, 2, 0).Format(model.DateLayout),
			Capacity:  &capacity,
		})
		if err != nil {
			log.Fatal().Err(err).Uint64("course_id", courseID).Msg("Failed to seed class")
		}
	}
	fmt.Printf("Classes created: %d\n", len(courseIDs))
	if _, err := classService.SyncStatuses(ctx, today); err != nil {
		log.Warn().Err(err).Msg("Class status sync failed")
	}

	created := 0
	for i := 0; i < *students; i++ {
		name := studentNames[i%len(studentNames)]
		s, _, err := studentService.Create(ctx, model.CreateStudentRequest{
			Name:   name,
			Gender: []model.Gender{model.GenderFemale, model.GenderMale}[i%2],
			Email:  fmt.Sprintf("student%02d@example.com", i+1),
		})
		if err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		if _, err := studentService.Recharge(ctx, s.ID, decimal.NewFromInt(5000)); err != nil {
			fmt.Printf("Error funding student %s: %v\n", s.StudentCode, err)
		}
		created++
		if created%10 == 0 {
			fmt.Printf("Created %d students...\n", created)
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d students. Default password: %s\n", created, *students, cfg.DefaultAccountPassword)
}

// seedDepartments creates missing departments and returns all their IDs.
func seedDepartments(ctx context.Context, svc *service.DepartmentService, repo *repository.DepartmentRepository) ([]uint64, error) {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]uint64, len(existing))
	for _, d := range existing {
		byName[d.Name] = d.ID
	}

	ids := make([]uint64, 0, len(departments))
	for _, req := range departments {
		if id, ok := byName[req.Name]; ok {
			ids = append(ids, id)
			continue
		}
		d, err := svc.Create(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("create department %s: %w", req.Name, err)
		}
		ids = append(ids, d.ID)
	}
	return ids, nil
}
