package derive

import (
	"time"

	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
)

// Write describes a successful primary write about to be committed.
// TargetOwner is the owner username of the entity the write points at:
// the pin author for a like or comment on a pin, the blog author for
// blog interactions, the recipient for a chat message. It is what
// fan-out compares the actor against.
type Write struct {
	Kind        authz.Kind
	Before      any
	After       any
	Actor       identity.Identity
	TargetOwner string
}

// DerivedWrite is an additional write the caller must apply in the same
// transaction as the primary one.
type DerivedWrite struct {
	Kind   authz.Kind
	Op     authz.Operation
	Entity any
}

// Created reports whether the write is an insert (no prior state).
func (w Write) Created() bool {
	return w.Before == nil
}

// OnWrite computes the derived writes for a primary write: the excerpt
// update for blog post create/update, and the notification insert for
// like/comment/message creates. Runs synchronously; the caller applies
// the result inside the transaction of the primary write, so a failure
// here rolls everything back.
func OnWrite(w Write) []DerivedWrite {
	switch w.Kind {
	case authz.KindBlogPost:
		return deriveBlogPost(w)
	case authz.KindLike:
		if l, ok := w.After.(*models.Like); ok && w.Created() {
			return deriveNotification(Event{
				Action:        models.NotificationLike,
				EntityType:    models.EntityPin,
				EntityID:      l.PinID,
				ActorUsername: w.Actor.Username,
				OwnerUsername: w.TargetOwner,
			})
		}
	case authz.KindCommentLike:
		if l, ok := w.After.(*models.CommentLike); ok && w.Created() {
			return deriveNotification(Event{
				Action:        models.NotificationLike,
				EntityType:    models.EntityComment,
				EntityID:      l.CommentID,
				ActorUsername: w.Actor.Username,
				OwnerUsername: w.TargetOwner,
			})
		}
	case authz.KindBlogPostLike:
		if l, ok := w.After.(*models.BlogPostLike); ok && w.Created() {
			return deriveNotification(Event{
				Action:        models.NotificationLike,
				EntityType:    models.EntityBlogPost,
				EntityID:      l.BlogPostID,
				ActorUsername: w.Actor.Username,
				OwnerUsername: w.TargetOwner,
			})
		}
	case authz.KindBlogPostCommentLike:
		if l, ok := w.After.(*models.BlogPostCommentLike); ok && w.Created() {
			return deriveNotification(Event{
				Action:        models.NotificationLike,
				EntityType:    models.EntityBlogPostComment,
				EntityID:      l.BlogPostCommentID,
				ActorUsername: w.Actor.Username,
				OwnerUsername: w.TargetOwner,
			})
		}
	case authz.KindComment:
		if c, ok := w.After.(*models.Comment); ok && w.Created() {
			return deriveNotification(Event{
				Action:        models.NotificationComment,
				EntityType:    models.EntityPin,
				EntityID:      c.PinID,
				ActorUsername: w.Actor.Username,
				OwnerUsername: w.TargetOwner,
			})
		}
	case authz.KindBlogPostComment:
		if c, ok := w.After.(*models.BlogPostComment); ok && w.Created() {
			return deriveNotification(Event{
				Action:        models.NotificationComment,
				EntityType:    models.EntityBlogPost,
				EntityID:      c.BlogPostID,
				ActorUsername: w.Actor.Username,
				OwnerUsername: w.TargetOwner,
			})
		}
	case authz.KindChatMessage:
		if m, ok := w.After.(*models.ChatMessage); ok && w.Created() {
			return deriveNotification(Event{
				Action:        models.NotificationMessage,
				EntityType:    models.EntityChatMessage,
				EntityID:      m.ID,
				ActorUsername: w.Actor.Username,
				OwnerUsername: w.TargetOwner,
			})
		}
	}
	return nil
}

func deriveBlogPost(w Write) []DerivedWrite {
	post, ok := w.After.(*models.BlogPost)
	if !ok {
		return nil
	}
	post.Excerpt = Excerpt(post.Content)
	post.UpdatedAt = time.Now()
	return []DerivedWrite{{
		Kind:   authz.KindBlogPost,
		Op:     authz.OpUpdate,
		Entity: post,
	}}
}

func deriveNotification(ev Event) []DerivedWrite {
	n := FanOut(ev)
	if n == nil {
		return nil
	}
	return []DerivedWrite{{
		Kind:   authz.KindNotification,
		Op:     authz.OpCreate,
		Entity: n,
	}}
}
