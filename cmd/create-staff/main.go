package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/database"
	"github.com/akademix/examly-backend/internal/logger"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/akademix/examly-backend/internal/service"
	"github.com/fatih/color"
	"golang.org/x/term"
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
	staffRepo := repository.NewStaffRepository(pool)
	authService := service.NewAuthService(cfg, nil)
	staffService := service.NewStaffService(staffRepo, authService)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	color.Cyan("=== Create New Staff User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		color.Red("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		color.Red("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		color.Red("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		color.Red("Error: Password must be at least 6 characters")
		return
	}

	// Role
	fmt.Print("Enter Role [PROCTOR/ADMIN] (default ADMIN): ")
	roleStr, _ := reader.ReadString('\n')
	roleStr = strings.ToUpper(strings.TrimSpace(roleStr))
	role := model.StaffRoleAdmin
	switch roleStr {
	case "", string(model.StaffRoleAdmin):
	case string(model.StaffRoleProctor):
		role = model.StaffRoleProctor
	default:
		color.Red("Error: Role must be PROCTOR or ADMIN")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	staff, err := staffService.Create(ctx, name, email, password, role)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create staff user")
	}

	color.Green("\nSuccess! Staff user '%s' (%s, %s) created with ID: %d", staff.Name, staff.Email, staff.Role, staff.ID)
}
