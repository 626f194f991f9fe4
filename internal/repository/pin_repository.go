package repository

import (
	"errors"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PinRepository struct {
	db *gorm.DB
}

func NewPinRepository(db *gorm.DB) *PinRepository {
	return &PinRepository{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *PinRepository) WithTx(tx *gorm.DB) *PinRepository {
	return &PinRepository{db: tx}
}

func (r *PinRepository) CreatePin(pin *models.Pin) error {
	return r.db.Create(pin).Error
}

func (r *PinRepository) GetPinByID(id uuid.UUID) (*models.Pin, error) {
	var pin models.Pin
	err := r.db.First(&pin, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pin, nil
}

func (r *PinRepository) ListPins(limit, offset int) ([]models.Pin, error) {
	var pins []models.Pin
	err := r.db.
		Preload("Comments").
		Preload("Likes").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pins).Error
	return pins, err
}

func (r *PinRepository) ListPinsByUsername(username string) ([]models.Pin, error) {
	var pins []models.Pin
	err := r.db.
		Preload("Comments").
		Preload("Likes").
		Where("username = ?", username).
		Order("created_at DESC").
		Find(&pins).Error
	return pins, err
}

func (r *PinRepository) UpdatePin(pin *models.Pin) error {
	return r.db.Save(pin).Error
}

// DeletePinCascade removes a pin and every dependent row (comments,
// their likes, pin likes) as one unit. Caller runs it inside a
// transaction; SQLite in tests does not enforce the FK cascades, so the
// children are deleted explicitly.
func (r *PinRepository) DeletePinCascade(pinID uuid.UUID) error {
	var commentIDs []uuid.UUID
	if err := r.db.Model(&models.Comment{}).Where("pin_id = ?", pinID).Pluck("id", &commentIDs).Error; err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := r.db.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
	}
	if err := r.db.Where("pin_id = ?", pinID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("pin_id = ?", pinID).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Pin{}, "id = ?", pinID).Error
}

func (r *PinRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PinRepository) GetCommentByID(id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *PinRepository) ListComments(pinID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Likes").
		Where("pin_id = ?", pinID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *PinRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteCommentCascade removes a comment together with its likes.
func (r *PinRepository) DeleteCommentCascade(commentID uuid.UUID) error {
	if err := r.db.Where("comment_id = ?", commentID).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Comment{}, "id = ?", commentID).Error
}

func (r *PinRepository) CountCommentLikes(commentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

func (r *PinRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *PinRepository) GetLike(pinID uuid.UUID, username string) (*models.Like, error) {
	var like models.Like
	err := r.db.Where("pin_id = ? AND username = ?", pinID, username).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *PinRepository) DeleteLike(id uuid.UUID) error {
	return r.db.Delete(&models.Like{}, "id = ?", id).Error
}

func (r *PinRepository) CreateCommentLike(like *models.CommentLike) error {
	return r.db.Create(like).Error
}

func (r *PinRepository) GetCommentLike(commentID uuid.UUID, username string) (*models.CommentLike, error) {
	var like models.CommentLike
	err := r.db.Where("comment_id = ? AND username = ?", commentID, username).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *PinRepository) DeleteCommentLike(id uuid.UUID) error {
	return r.db.Delete(&models.CommentLike{}, "id = ?", id).Error
}
