package main

import (
	"log"

	"go-pharmacy-inventory/internal/model"
	"go-pharmacy-inventory/internal/repository"
	"go-pharmacy-inventory/pkg/database"

	"github.com/joho/godotenv"
)

// Recreates the admin account with the default credential. The old admin
// user's ledger entries go with it so the user foreign key stays valid.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	userRepo := repository.NewUserRepo(db)

	// 3. Drop the existing admin, transactions first
	if existing, err := userRepo.FindByUsername("admin"); err == nil {
		if err := userRepo.DeleteWithTransactions(existing.ID); err != nil {
			log.Fatalf("Failed to remove existing admin: %v", err)
		}
	}

	// 4. Recreate with the default credential
	admin := &model.User{
		Username: "admin",
		Role:     model.RoleAdmin,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Println("Success! Admin has been reset to: admin / admin123")
}
