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

// PinService owns the write path for pins and their comments and likes:
// authorize, validate, write, run the consistency triggers, all in one
// transaction.
type PinService struct {
	db      *gorm.DB
	pinRepo *repository.PinRepository
	engine  *authz.Engine
	events  broker.EventBroker
}

func NewPinService(db *gorm.DB, pinRepo *repository.PinRepository, engine *authz.Engine, events broker.EventBroker) *PinService {
	return &PinService{
		db:      db,
		pinRepo: pinRepo,
		engine:  engine,
		events:  events,
	}
}

func (s *PinService) CreatePin(actor identity.Identity, pin *models.Pin) (*models.Pin, error) {
	if err := s.engine.Authorize(actor, authz.KindPin, authz.OpCreate, pin).Err(); err != nil {
		return nil, err
	}
	if err := validate.Pin(pin); err != nil {
		return nil, err
	}

	if err := s.pinRepo.CreatePin(pin); err != nil {
		return nil, err
	}

	logger.Log.Info("Pin created",
		zap.String("pin_id", pin.ID.String()),
		zap.String("username", pin.Username),
	)

	return pin, nil
}

func (s *PinService) GetPin(actor identity.Identity, pinID uuid.UUID) (*models.Pin, error) {
	pin, err := s.pinRepo.GetPinByID(pinID)
	if err != nil {
		return nil, err
	}
	if pin == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindPin, authz.OpRead, pin).Err(); err != nil {
		return nil, err
	}
	return pin, nil
}

func (s *PinService) ListPins(limit, offset int) ([]models.Pin, error) {
	return s.pinRepo.ListPins(limit, offset)
}

func (s *PinService) ListPinsByUsername(username string) ([]models.Pin, error) {
	return s.pinRepo.ListPinsByUsername(username)
}

// UpdatePin changes title/description/image. The owner field is
// immutable: the stored username always wins over the request.
func (s *PinService) UpdatePin(actor identity.Identity, pinID uuid.UUID, title, description, imageURL string) (*models.Pin, error) {
	pin, err := s.pinRepo.GetPinByID(pinID)
	if err != nil {
		return nil, err
	}
	if pin == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindPin, authz.OpUpdate, pin).Err(); err != nil {
		return nil, err
	}

	pin.Title = title
	pin.Description = description
	if imageURL != "" {
		pin.ImageURL = imageURL
	}
	if err := validate.Pin(pin); err != nil {
		return nil, err
	}

	if err := s.pinRepo.UpdatePin(pin); err != nil {
		return nil, err
	}
	return pin, nil
}

// DeletePin removes a pin and all its comments and likes as one unit.
// Deleting an already-deleted pin is a no-op.
func (s *PinService) DeletePin(actor identity.Identity, pinID uuid.UUID) error {
	pin, err := s.pinRepo.GetPinByID(pinID)
	if err != nil {
		return err
	}
	if pin == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindPin, authz.OpDelete, pin).Err(); err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.pinRepo.WithTx(tx).DeletePinCascade(pinID)
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Pin deleted",
		zap.String("pin_id", pinID.String()),
		zap.String("actor", actor.Username),
		zap.Bool("by_admin", actor.IsAdmin()),
	)
	return nil
}

func (s *PinService) CreateComment(actor identity.Identity, comment *models.Comment) (*models.Comment, error) {
	if err := s.engine.Authorize(actor, authz.KindComment, authz.OpCreate, comment).Err(); err != nil {
		return nil, err
	}
	if err := validate.Comment(comment); err != nil {
		return nil, err
	}

	pin, err := s.pinRepo.GetPinByID(comment.PinID)
	if err != nil {
		return nil, err
	}
	if pin == nil {
		return nil, ErrNotFound
	}

	var notifications []*models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.pinRepo.WithTx(tx).CreateComment(comment); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindComment,
			After:       comment,
			Actor:       actor,
			TargetOwner: pin.Username,
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

func (s *PinService) ListComments(pinID uuid.UUID) ([]models.Comment, error) {
	return s.pinRepo.ListComments(pinID)
}

func (s *PinService) UpdateComment(actor identity.Identity, commentID uuid.UUID, text string) (*models.Comment, error) {
	comment, err := s.pinRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindComment, authz.OpUpdate, comment).Err(); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := validate.Comment(comment); err != nil {
		return nil, err
	}

	if err := s.pinRepo.UpdateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment together with its likes in one
// transaction.
func (s *PinService) DeleteComment(actor identity.Identity, commentID uuid.UUID) error {
	comment, err := s.pinRepo.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindComment, authz.OpDelete, comment).Err(); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.pinRepo.WithTx(tx).DeleteCommentCascade(commentID)
	})
}

// LikePin records a like and fans out a notification to the pin owner
// unless the actor likes their own pin. Liking an already-liked pin is
// a no-op returning the existing like.
func (s *PinService) LikePin(actor identity.Identity, pinID uuid.UUID) (*models.Like, error) {
	pin, err := s.pinRepo.GetPinByID(pinID)
	if err != nil {
		return nil, err
	}
	if pin == nil {
		return nil, ErrNotFound
	}

	existing, err := s.pinRepo.GetLike(pinID, actor.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	like := &models.Like{PinID: pinID, Username: actor.Username}
	if err := s.engine.Authorize(actor, authz.KindLike, authz.OpCreate, like).Err(); err != nil {
		return nil, err
	}

	var notifications []*models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.pinRepo.WithTx(tx).CreateLike(like); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindLike,
			After:       like,
			Actor:       actor,
			TargetOwner: pin.Username,
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

func (s *PinService) UnlikePin(actor identity.Identity, pinID uuid.UUID) error {
	like, err := s.pinRepo.GetLike(pinID, actor.Username)
	if err != nil {
		return err
	}
	if like == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindLike, authz.OpDelete, like).Err(); err != nil {
		return err
	}
	return s.pinRepo.DeleteLike(like.ID)
}

func (s *PinService) LikeComment(actor identity.Identity, commentID uuid.UUID) (*models.CommentLike, error) {
	comment, err := s.pinRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}

	existing, err := s.pinRepo.GetCommentLike(commentID, actor.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	like := &models.CommentLike{CommentID: commentID, Username: actor.Username}
	if err := s.engine.Authorize(actor, authz.KindCommentLike, authz.OpCreate, like).Err(); err != nil {
		return nil, err
	}

	var notifications []*models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.pinRepo.WithTx(tx).CreateCommentLike(like); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindCommentLike,
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

func (s *PinService) UnlikeComment(actor identity.Identity, commentID uuid.UUID) error {
	like, err := s.pinRepo.GetCommentLike(commentID, actor.Username)
	if err != nil {
		return err
	}
	if like == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindCommentLike, authz.OpDelete, like).Err(); err != nil {
		return err
	}
	return s.pinRepo.DeleteCommentLike(like.ID)
}
