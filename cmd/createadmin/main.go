package main

import (
	"context"
	"flag"
	"log"

	"github.com/verzia/verzia/internal/config"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// createadmin bootstraps an admin account, or promotes the user if the
// username is already taken.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db.DB)

	existing, err := userRepo.GetByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("Failed to look up user: %v", err)
	}

	if existing != nil {
		if existing.IsAdmin {
			log.Printf("user %q is already an admin", *username)
			return
		}
		existing.IsAdmin = true
		if err := userRepo.Update(ctx, existing); err != nil {
			log.Fatalf("Failed to promote user: %v", err)
		}
		log.Printf("promoted existing user %q to admin", *username)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		Username: *username,
		Email:    *email,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("created admin user %q (%s)", admin.Username, admin.ID)
}
