package main

import (
	"context"
	"log"
	"os"

	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/repository/specification"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		color.Red("Error: ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	users := uow.UserRepository()

	existing, err := users.FindOne(ctx, specification.ByEmail{Email: adminEmail})
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	if existing != nil {
		color.Yellow("Admin user already exists, nothing to do.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Error: Failed to hash password: %v", err)
		os.Exit(1)
	}

	admin := &entity.User{
		Username:     "admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         entity.UserRoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		color.Red("Error: Failed to create admin: %v", err)
		os.Exit(1)
	}

	color.Green("Admin user created: %s", adminEmail)
}
