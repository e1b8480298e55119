// scripts/create_admin.go
//
// Creates an admin account. Admins cannot be created through the public
// registration endpoint, so this is the way to bootstrap one:
//
//	go run scripts/create_admin.go <username> <password>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run scripts/create_admin.go <username> <password>")
	}

	username := os.Args[1]
	password := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	hash, err := auth.NewPasswordManager(cfg).HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := user.User{
		Username: username,
		Password: hash,
		IsActive: true,
		IsAdmin:  true,
	}

	if err := db.GetDB().Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	fmt.Printf("✅ Admin user %q created (id=%d)\n", admin.Username, admin.ID)
}
