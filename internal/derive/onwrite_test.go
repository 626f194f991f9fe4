package derive

import (
	"strings"
	"testing"

	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guestActor(t *testing.T, username string) identity.Identity {
	t.Helper()
	id, ok := identity.Guest(username)
	require.True(t, ok)
	return id
}

func TestFanOut_NoSelfNotification(t *testing.T) {
	ev := Event{
		Action:        models.NotificationLike,
		EntityType:    models.EntityPin,
		EntityID:      uuid.New(),
		ActorUsername: "alice",
		OwnerUsername: "alice",
	}

	assert.Nil(t, FanOut(ev))
}

func TestFanOut_GuestLikesPin(t *testing.T) {
	pinID := uuid.New()
	ev := Event{
		Action:        models.NotificationLike,
		EntityType:    models.EntityPin,
		EntityID:      pinID,
		ActorUsername: "1234567",
		OwnerUsername: "alice",
	}

	n := FanOut(ev)

	require.NotNil(t, n)
	assert.Equal(t, "alice", n.RecipientUsername)
	assert.Equal(t, "1234567", n.SenderUsername)
	assert.Equal(t, models.NotificationLike, n.Type)
	assert.Equal(t, models.EntityPin, n.EntityType)
	assert.Equal(t, pinID, n.EntityID)
	assert.Contains(t, n.Message, "1234567")
	assert.False(t, n.IsRead)
}

func TestOnWrite_LikeCreateDerivesOneNotification(t *testing.T) {
	like := &models.Like{PinID: uuid.New(), Username: "1234567"}

	derived := OnWrite(Write{
		Kind:        authz.KindLike,
		After:       like,
		Actor:       guestActor(t, "1234567"),
		TargetOwner: "alice",
	})

	require.Len(t, derived, 1)
	assert.Equal(t, authz.KindNotification, derived[0].Kind)
	assert.Equal(t, authz.OpCreate, derived[0].Op)

	n, ok := derived[0].Entity.(*models.Notification)
	require.True(t, ok)
	assert.Equal(t, "alice", n.RecipientUsername)
	assert.Equal(t, like.PinID, n.EntityID)
}

func TestOnWrite_SelfLikeDerivesNothing(t *testing.T) {
	like := &models.Like{PinID: uuid.New(), Username: "alice"}

	derived := OnWrite(Write{
		Kind:        authz.KindLike,
		After:       like,
		Actor:       identity.Authenticated(uuid.New(), "alice", models.RoleUser),
		TargetOwner: "alice",
	})

	assert.Empty(t, derived)
}

func TestOnWrite_CommentCreate(t *testing.T) {
	comment := &models.Comment{PinID: uuid.New(), Username: "bob", Text: "nice"}

	derived := OnWrite(Write{
		Kind:        authz.KindComment,
		After:       comment,
		Actor:       identity.Authenticated(uuid.New(), "bob", models.RoleUser),
		TargetOwner: "alice",
	})

	require.Len(t, derived, 1)
	n := derived[0].Entity.(*models.Notification)
	assert.Equal(t, models.NotificationComment, n.Type)
	assert.Equal(t, models.EntityPin, n.EntityType)
	assert.Equal(t, comment.PinID, n.EntityID)
	assert.Equal(t, "bob commented on your pin", n.Message)
}

func TestOnWrite_ChatMessageCreate(t *testing.T) {
	msg := &models.ChatMessage{
		ConversationID: models.ConversationID("alice", "bob"),
		Username:       "bob",
		Recipient:      "alice",
		Text:           "speak friend",
	}
	msg.ID = uuid.New()

	derived := OnWrite(Write{
		Kind:        authz.KindChatMessage,
		After:       msg,
		Actor:       identity.Authenticated(uuid.New(), "bob", models.RoleUser),
		TargetOwner: "alice",
	})

	require.Len(t, derived, 1)
	n := derived[0].Entity.(*models.Notification)
	assert.Equal(t, models.NotificationMessage, n.Type)
	assert.Equal(t, models.EntityChatMessage, n.EntityType)
	assert.Equal(t, msg.ID, n.EntityID)
	assert.Equal(t, "bob sent you a message", n.Message)
}

func TestOnWrite_CommentUpdateDerivesNothing(t *testing.T) {
	before := &models.Comment{PinID: uuid.New(), Username: "bob", Text: "old"}
	after := &models.Comment{PinID: before.PinID, Username: "bob", Text: "new"}

	derived := OnWrite(Write{
		Kind:        authz.KindComment,
		Before:      before,
		After:       after,
		Actor:       identity.Authenticated(uuid.New(), "bob", models.RoleUser),
		TargetOwner: "alice",
	})

	assert.Empty(t, derived, "edits do not re-notify")
}

func TestOnWrite_BlogPostDerivesExcerpt(t *testing.T) {
	post := &models.BlogPost{
		AuthorUsername: "alice",
		Title:          "There and Back Again",
		Content:        "<p>" + strings.Repeat("w", 1500) + "</p>",
	}

	derived := OnWrite(Write{
		Kind:        authz.KindBlogPost,
		After:       post,
		Actor:       identity.Authenticated(uuid.New(), "alice", models.RoleUser),
		TargetOwner: "alice",
	})

	require.Len(t, derived, 1)
	assert.Equal(t, authz.KindBlogPost, derived[0].Kind)
	assert.Equal(t, authz.OpUpdate, derived[0].Op)
	assert.Len(t, post.Excerpt, 303)
	assert.False(t, post.UpdatedAt.IsZero())
}

func TestOnWrite_MarketplaceItemDerivesNothing(t *testing.T) {
	item := &models.MarketplaceItem{SellerUsername: "alice", Title: "pony", Price: 12}

	derived := OnWrite(Write{
		Kind:        authz.KindMarketplaceItem,
		After:       item,
		Actor:       identity.Authenticated(uuid.New(), "alice", models.RoleUser),
		TargetOwner: "alice",
	})

	assert.Empty(t, derived)
}
