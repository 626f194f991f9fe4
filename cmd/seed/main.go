package main

import (
	"log"
	"os"
	"strings"

	"github.com/fellowshipfinder/backend/internal/config"
	"github.com/fellowshipfinder/backend/internal/database"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/utils"
	"github.com/google/uuid"
)

// Seeded on first run so username screening works out of the box.
// Admins extend the list through the API.
var defaultForbiddenWords = []string{
	"admin",
	"moderator",
	"support",
	"official",
	"system",
}

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	seedAdmin()
	seedForbiddenWords()
}

func seedAdmin() {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)
	if result.Error == nil {
		log.Println("✅ Admin user already exists:", admin.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("✅ Admin user created successfully!")
	log.Println("   Username:", admin.Username)
	log.Println("   Email:", admin.Email)
}

func seedForbiddenWords() {
	for _, word := range defaultForbiddenWords {
		word = strings.ToLower(word)

		var existing models.ForbiddenWord
		if err := database.DB.Where("word = ?", word).First(&existing).Error; err == nil {
			continue
		}

		if err := database.DB.Create(&models.ForbiddenWord{Word: word}).Error; err != nil {
			log.Fatal("Failed to seed forbidden word:", err)
		}
	}

	log.Printf("✅ Forbidden word list seeded (%d defaults)", len(defaultForbiddenWords))
}
