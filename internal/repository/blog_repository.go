package repository

import (
	"errors"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) WithTx(tx *gorm.DB) *BlogRepository {
	return &BlogRepository{db: tx}
}

func (r *BlogRepository) CreatePost(post *models.BlogPost) error {
	return r.db.Create(post).Error
}

func (r *BlogRepository) GetPostByID(id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListPublishedPosts returns the public feed, newest first.
func (r *BlogRepository) ListPublishedPosts(limit, offset int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.
		Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// ListPostsByAuthor includes unpublished drafts: the caller is
// responsible for only asking for the authenticated author's own posts
// (or being an admin).
func (r *BlogRepository) ListPostsByAuthor(author string) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.
		Where("author_username = ?", author).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *BlogRepository) UpdatePost(post *models.BlogPost) error {
	return r.db.Save(post).Error
}

// DeletePostCascade removes a post and all dependent comments, comment
// likes and post likes as one unit.
func (r *BlogRepository) DeletePostCascade(postID uuid.UUID) error {
	var commentIDs []uuid.UUID
	if err := r.db.Model(&models.BlogPostComment{}).Where("blog_post_id = ?", postID).Pluck("id", &commentIDs).Error; err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := r.db.Where("blog_post_comment_id IN ?", commentIDs).Delete(&models.BlogPostCommentLike{}).Error; err != nil {
			return err
		}
	}
	if err := r.db.Where("blog_post_id = ?", postID).Delete(&models.BlogPostComment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("blog_post_id = ?", postID).Delete(&models.BlogPostLike{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.BlogPost{}, "id = ?", postID).Error
}

func (r *BlogRepository) CreateComment(comment *models.BlogPostComment) error {
	return r.db.Create(comment).Error
}

func (r *BlogRepository) GetCommentByID(id uuid.UUID) (*models.BlogPostComment, error) {
	var comment models.BlogPostComment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *BlogRepository) ListComments(postID uuid.UUID) ([]models.BlogPostComment, error) {
	var comments []models.BlogPostComment
	err := r.db.
		Preload("Likes").
		Where("blog_post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *BlogRepository) UpdateComment(comment *models.BlogPostComment) error {
	return r.db.Save(comment).Error
}

func (r *BlogRepository) DeleteCommentCascade(commentID uuid.UUID) error {
	if err := r.db.Where("blog_post_comment_id = ?", commentID).Delete(&models.BlogPostCommentLike{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.BlogPostComment{}, "id = ?", commentID).Error
}

func (r *BlogRepository) CreatePostLike(like *models.BlogPostLike) error {
	return r.db.Create(like).Error
}

func (r *BlogRepository) GetPostLike(postID uuid.UUID, username string) (*models.BlogPostLike, error) {
	var like models.BlogPostLike
	err := r.db.Where("blog_post_id = ? AND username = ?", postID, username).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *BlogRepository) DeletePostLike(id uuid.UUID) error {
	return r.db.Delete(&models.BlogPostLike{}, "id = ?", id).Error
}

func (r *BlogRepository) CreateCommentLike(like *models.BlogPostCommentLike) error {
	return r.db.Create(like).Error
}

func (r *BlogRepository) GetCommentLike(commentID uuid.UUID, username string) (*models.BlogPostCommentLike, error) {
	var like models.BlogPostCommentLike
	err := r.db.Where("blog_post_comment_id = ? AND username = ?", commentID, username).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *BlogRepository) DeleteCommentLike(id uuid.UUID) error {
	return r.db.Delete(&models.BlogPostCommentLike{}, "id = ?", id).Error
}
