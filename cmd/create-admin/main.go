package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/database"
	"github.com/edutrain/training-backend/internal/logger"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/edutrain/training-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	db, err := database.NewGorm(pool, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open GORM session")
	}

	// ─── Initialize Service ────────────────────────────────────────────
	// Accounts created here never need a session store.
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(cfg, userRepo, nil, log)
	userService := service.NewUserService(userRepo, authService, nil, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin Account ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		return
	}

	fmt.Print("Confirm Password: ")
	byteConfirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	if string(bytePassword) != string(byteConfirm) {
		fmt.Println("Error: Passwords do not match")
		return
	}

	req := model.CreateUserRequest{
		Username: username,
		Password: string(bytePassword),
		Role:     model.RoleAdmin,
	}
	if fields := validator.ValidateStruct(req); fields != nil {
		for field, msg := range fields {
			fmt.Printf("Error: %s: %s\n", field, msg)
		}
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := userService.Create(ctx, req)
	if errors.Is(err, repository.ErrUsernameTaken) {
		fmt.Printf("Error: username %q is already registered\n", username)
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' created with ID: %d\n", admin.Username, admin.ID)
}
