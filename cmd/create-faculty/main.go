package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/coursedesk/coursedesk-backend/internal/config"
	"github.com/coursedesk/coursedesk-backend/internal/database"
	"github.com/coursedesk/coursedesk-backend/internal/logger"
	"github.com/coursedesk/coursedesk-backend/internal/model"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
	"github.com/coursedesk/coursedesk-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	facultyRepo := repository.NewFacultyRepository(pool)
	facultyService := service.NewFacultyService(facultyRepo)
	authService := service.NewAuthService(cfg, nil)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Faculty Account ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	hashedPassword, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newFaculty := &model.Faculty{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
	}

	if err := facultyService.Create(ctx, newFaculty); err != nil {
		log.Fatal().Err(err).Msg("Failed to create faculty account")
	}

	fmt.Printf("\nSuccess! Faculty '%s' (%s) created with ID: %d\n", newFaculty.Name, newFaculty.Email, newFaculty.ID)
}
