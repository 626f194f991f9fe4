package database

import (
	"log"

	"github.com/fellowshipfinder/backend/internal/config"
	"github.com/fellowshipfinder/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})

	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.ForbiddenWord{},
		&models.Pin{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.BlogPost{},
		&models.BlogPostComment{},
		&models.BlogPostLike{},
		&models.BlogPostCommentLike{},
		&models.MarketplaceItem{},
		&models.ChatMessage{},
		&models.Notification{},
	)

	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}
