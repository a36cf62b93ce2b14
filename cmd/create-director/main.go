package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dasschool/das-verify/internal/config"
	"github.com/dasschool/das-verify/internal/database"
	"github.com/dasschool/das-verify/internal/logger"
	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/repository"
	"github.com/dasschool/das-verify/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open SQLite ───────────────────────────────────────────────────
	db, err := database.NewSQLite(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open SQLite database")
	}
	defer db.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(cfg, userRepo)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create API Login User ===")

	// Username
	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	// Full name
	fmt.Print("Enter Full Name: ")
	fullName, _ := reader.ReadString('\n')
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = username
	}

	// Role
	fmt.Print("Enter Role (director/staff) [director]: ")
	roleInput, _ := reader.ReadString('\n')
	role := model.Role(strings.TrimSpace(roleInput))
	if role == "" {
		role = model.RoleDirector
	}
	if role != model.RoleDirector && role != model.RoleStaff {
		fmt.Println("Error: Role must be director or staff")
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

	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	user := &model.User{
		Username:     username,
		FullName:     fullName,
		Role:         role,
		PasswordHash: hash,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("Created %s user %q (ID %d)\n", user.Role, user.Username, user.ID)
}
