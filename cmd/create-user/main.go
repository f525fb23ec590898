package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"law_dashboard_go/config"
	"law_dashboard_go/db"
	"law_dashboard_go/models"
	"law_dashboard_go/services"

	"github.com/alecthomas/kong"
	"golang.org/x/term"
	"gorm.io/gorm"
)

type cli struct {
	DBPath string `name:"db-path" help:"SQLite database file (defaults to DB_PATH)."`

	Add        addCmd        `cmd:"" default:"withargs" help:"Create a dashboard login for AUTH_MODE=database."`
	Deactivate deactivateCmd `cmd:"" help:"Disable a login without deleting it."`
}

type addCmd struct {
	Name  string `help:"Display name shown in the dashboard header (prompted when empty)."`
	Email string `help:"Login email (prompted when empty)."`
}

type deactivateCmd struct {
	Email string `arg:"" help:"Login email to disable."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("create-user"),
		kong.Description("Manage logins for the strategic growth dashboard."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	if app.DBPath != "" {
		cfg.DBPath = app.DBPath
	}

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx.FatalIfErrorf(ctx.Run(cfg))
}

func (cmd *addCmd) Run(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Dashboard User ===")
	fmt.Println()

	name := cmd.Name
	if name == "" {
		fmt.Print("Name: ")
		name, _ = reader.ReadString('\n')
	}
	email := cmd.Email
	if email == "" {
		fmt.Print("Email: ")
		email, _ = reader.ReadString('\n')
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	acc := services.NewAccount{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: string(passwordBytes),
	}
	if err := services.ValidateAccount(acc); err != nil {
		return fmt.Errorf("invalid account:\n%w", err)
	}

	var existing models.User
	if err := db.DB.Where("email = ?", acc.Email).First(&existing).Error; err == nil {
		return fmt.Errorf("user with email %s already exists", acc.Email)
	}

	hashedPassword, err := services.HashPassword(acc.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:     acc.Name,
		Email:    acc.Email,
		Password: hashedPassword,
		IsActive: true,
	}
	if err := db.DB.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println()
	if cfg.AuthMode != config.AuthModeDatabase {
		fmt.Println("Note: AUTH_MODE is not \"database\"; set it so this account can log in.")
	}
	fmt.Printf("Log in at %s/login\n", strings.TrimRight(cfg.AppURL, "/"))
	return nil
}

func (cmd *deactivateCmd) Run(cfg *config.Config) error {
	var user models.User
	if err := db.DB.Where("email = ?", cmd.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no user with email %s", cmd.Email)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := db.DB.Model(&user).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if n, err := services.DeleteSessionsForSubject(db.DB, user.Email); err != nil {
		log.Printf("[WARNING] Failed to end sessions for %s: %v", user.Email, err)
	} else if n > 0 {
		fmt.Printf("Ended %d open session(s)\n", n)
	}

	fmt.Printf("✓ %s can no longer log in\n", user.Email)
	return nil
}
