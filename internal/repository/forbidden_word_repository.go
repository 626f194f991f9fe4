package repository

import (
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ForbiddenWordRepository struct {
	db *gorm.DB
}

func NewForbiddenWordRepository(db *gorm.DB) *ForbiddenWordRepository {
	return &ForbiddenWordRepository{db: db}
}

func (r *ForbiddenWordRepository) Add(word *models.ForbiddenWord) error {
	return r.db.Create(word).Error
}

func (r *ForbiddenWordRepository) Remove(id uuid.UUID) error {
	return r.db.Delete(&models.ForbiddenWord{}, "id = ?", id).Error
}

// ListWords returns just the word strings, the shape the username
// policy consumes.
func (r *ForbiddenWordRepository) ListWords() ([]string, error) {
	var words []string
	err := r.db.Model(&models.ForbiddenWord{}).Order("word").Pluck("word", &words).Error
	return words, err
}

func (r *ForbiddenWordRepository) ListAll() ([]models.ForbiddenWord, error) {
	var words []models.ForbiddenWord
	err := r.db.Order("word").Find(&words).Error
	return words, err
}
