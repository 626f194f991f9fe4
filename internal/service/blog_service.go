package service

import (
	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/broker"
	"github.com/fellowshipfinder/backend/internal/derive"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/internal/validate"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BlogService struct {
	db       *gorm.DB
	blogRepo *repository.BlogRepository
	engine   *authz.Engine
	events   broker.EventBroker
}

func NewBlogService(db *gorm.DB, blogRepo *repository.BlogRepository, engine *authz.Engine, events broker.EventBroker) *BlogService {
	return &BlogService{
		db:       db,
		blogRepo: blogRepo,
		engine:   engine,
		events:   events,
	}
}

// CreatePost writes the post and its derived excerpt in one
// transaction. Callers never set Excerpt themselves.
func (s *BlogService) CreatePost(actor identity.Identity, post *models.BlogPost) (*models.BlogPost, error) {
	if err := s.engine.Authorize(actor, authz.KindBlogPost, authz.OpCreate, post).Err(); err != nil {
		return nil, err
	}
	if err := validate.BlogPost(post); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.blogRepo.WithTx(tx).CreatePost(post); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindBlogPost,
			After:       post,
			Actor:       actor,
			TargetOwner: post.AuthorUsername,
		})
		_, err := applyDerived(tx, derived)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Blog post created",
		zap.String("post_id", post.ID.String()),
		zap.String("author", post.AuthorUsername),
		zap.Bool("published", post.IsPublished),
	)
	return post, nil
}

// GetPost enforces draft visibility: unpublished posts are readable
// only by their author or an admin.
func (s *BlogService) GetPost(actor identity.Identity, postID uuid.UUID) (*models.BlogPost, error) {
	post, err := s.blogRepo.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPost, authz.OpRead, post).Err(); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) ListPublished(limit, offset int) ([]models.BlogPost, error) {
	return s.blogRepo.ListPublishedPosts(limit, offset)
}

// ListByAuthor returns the author's own posts including drafts; for
// anyone else only an admin may see the full list.
func (s *BlogService) ListByAuthor(actor identity.Identity, author string) ([]models.BlogPost, error) {
	posts, err := s.blogRepo.ListPostsByAuthor(author)
	if err != nil {
		return nil, err
	}
	if actor.Username == author || actor.IsAdmin() {
		return posts, nil
	}
	published := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished {
			published = append(published, p)
		}
	}
	return published, nil
}

func (s *BlogService) UpdatePost(actor identity.Identity, postID uuid.UUID, title, content, coverImageURL string, isPublished bool) (*models.BlogPost, error) {
	post, err := s.blogRepo.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPost, authz.OpUpdate, post).Err(); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	post.CoverImageURL = coverImageURL
	post.IsPublished = isPublished
	if err := validate.BlogPost(post); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindBlogPost,
			Before:      &models.BlogPost{},
			After:       post,
			Actor:       actor,
			TargetOwner: post.AuthorUsername,
		})
		_, err := applyDerived(tx, derived)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) DeletePost(actor identity.Identity, postID uuid.UUID) error {
	post, err := s.blogRepo.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPost, authz.OpDelete, post).Err(); err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.blogRepo.WithTx(tx).DeletePostCascade(postID)
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Blog post deleted",
		zap.String("post_id", postID.String()),
		zap.String("actor", actor.Username),
		zap.Bool("by_admin", actor.IsAdmin()),
	)
	return nil
}

func (s *BlogService) CreateComment(actor identity.Identity, comment *models.BlogPostComment) (*models.BlogPostComment, error) {
	if err := s.engine.Authorize(actor, authz.KindBlogPostComment, authz.OpCreate, comment).Err(); err != nil {
		return nil, err
	}
	if err := validate.BlogPostComment(comment); err != nil {
		return nil, err
	}

	post, err := s.blogRepo.GetPostByID(comment.BlogPostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	// Commenting requires read access, which keeps drafts closed.
	if err := s.engine.Authorize(actor, authz.KindBlogPost, authz.OpRead, post).Err(); err != nil {
		return nil, err
	}

	var notifications []*models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.blogRepo.WithTx(tx).CreateComment(comment); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindBlogPostComment,
			After:       comment,
			Actor:       actor,
			TargetOwner: post.AuthorUsername,
		})
		notifications, err = applyDerived(tx, derived)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishNotifications(s.events, notifications)
	return comment, nil
}

func (s *BlogService) ListComments(postID uuid.UUID) ([]models.BlogPostComment, error) {
	return s.blogRepo.ListComments(postID)
}

func (s *BlogService) UpdateComment(actor identity.Identity, commentID uuid.UUID, text string) (*models.BlogPostComment, error) {
	comment, err := s.blogRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPostComment, authz.OpUpdate, comment).Err(); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := validate.BlogPostComment(comment); err != nil {
		return nil, err
	}

	if err := s.blogRepo.UpdateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *BlogService) DeleteComment(actor identity.Identity, commentID uuid.UUID) error {
	comment, err := s.blogRepo.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPostComment, authz.OpDelete, comment).Err(); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.blogRepo.WithTx(tx).DeleteCommentCascade(commentID)
	})
}

func (s *BlogService) LikePost(actor identity.Identity, postID uuid.UUID) (*models.BlogPostLike, error) {
	post, err := s.blogRepo.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPost, authz.OpRead, post).Err(); err != nil {
		return nil, err
	}

	existing, err := s.blogRepo.GetPostLike(postID, actor.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	like := &models.BlogPostLike{BlogPostID: postID, Username: actor.Username}
	if err := s.engine.Authorize(actor, authz.KindBlogPostLike, authz.OpCreate, like).Err(); err != nil {
		return nil, err
	}

	var notifications []*models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.blogRepo.WithTx(tx).CreatePostLike(like); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindBlogPostLike,
			After:       like,
			Actor:       actor,
			TargetOwner: post.AuthorUsername,
		})
		notifications, err = applyDerived(tx, derived)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishNotifications(s.events, notifications)
	return like, nil
}

func (s *BlogService) UnlikePost(actor identity.Identity, postID uuid.UUID) error {
	like, err := s.blogRepo.GetPostLike(postID, actor.Username)
	if err != nil {
		return err
	}
	if like == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPostLike, authz.OpDelete, like).Err(); err != nil {
		return err
	}
	return s.blogRepo.DeletePostLike(like.ID)
}

func (s *BlogService) LikeComment(actor identity.Identity, commentID uuid.UUID) (*models.BlogPostCommentLike, error) {
	comment, err := s.blogRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}

	existing, err := s.blogRepo.GetCommentLike(commentID, actor.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	like := &models.BlogPostCommentLike{BlogPostCommentID: commentID, Username: actor.Username}
	if err := s.engine.Authorize(actor, authz.KindBlogPostCommentLike, authz.OpCreate, like).Err(); err != nil {
		return nil, err
	}

	var notifications []*models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.blogRepo.WithTx(tx).CreateCommentLike(like); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindBlogPostCommentLike,
			After:       like,
			Actor:       actor,
			TargetOwner: comment.Username,
		})
		notifications, err = applyDerived(tx, derived)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishNotifications(s.events, notifications)
	return like, nil
}

func (s *BlogService) UnlikeComment(actor identity.Identity, commentID uuid.UUID) error {
	like, err := s.blogRepo.GetCommentLike(commentID, actor.Username)
	if err != nil {
		return err
	}
	if like == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindBlogPostCommentLike, authz.OpDelete, like).Err(); err != nil {
		return err
	}
	return s.blogRepo.DeleteCommentLike(like.ID)
}
