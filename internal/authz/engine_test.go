package authz

import (
	"testing"

	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(NewRegistry())
}

func alice() identity.Identity {
	return identity.Authenticated(uuid.New(), "alice", models.RoleUser)
}

func admin() identity.Identity {
	return identity.Authenticated(uuid.New(), "gandalf", models.RoleAdmin)
}

func guest() identity.Identity {
	id, _ := identity.Guest("1234567")
	return id
}

func TestAuthorize_OwnershipOrAdminMatrix(t *testing.T) {
	engine := newTestEngine()
	pin := &models.Pin{Username: "alice", Title: "second breakfast"}

	tests := []struct {
		name    string
		id      identity.Identity
		op      Operation
		allowed bool
	}{
		{"owner updates own pin", alice(), OpUpdate, true},
		{"owner deletes own pin", alice(), OpDelete, true},
		{"admin updates any pin", admin(), OpUpdate, true},
		{"admin deletes any pin", admin(), OpDelete, true},
		{"stranger cannot update", identity.Authenticated(uuid.New(), "bob", models.RoleUser), OpUpdate, false},
		{"stranger cannot delete", identity.Authenticated(uuid.New(), "bob", models.RoleUser), OpDelete, false},
		{"guest cannot touch others' pins", guest(), OpDelete, false},
		{"anonymous cannot delete", identity.Anonymous(), OpDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Authorize(tt.id, KindPin, tt.op, pin)
			assert.Equal(t, tt.allowed, d.Allowed, "reason: %s", d.Reason)
		})
	}
}

func TestAuthorize_AdminWhoIsAlsoOwner(t *testing.T) {
	engine := newTestEngine()
	pin := &models.Pin{Username: "gandalf"}

	// Both ownership and admin hold: still a single clean allow.
	d := engine.Authorize(admin(), KindPin, OpDelete, pin)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

func TestAuthorize_GuestOwnsByStringEquality(t *testing.T) {
	engine := newTestEngine()
	pin := &models.Pin{Username: "1234567"}

	d := engine.Authorize(guest(), KindPin, OpDelete, pin)
	assert.True(t, d.Allowed, "guest ownership is plain username equality")

	other, _ := identity.Guest("7654321")
	d = engine.Authorize(other, KindPin, OpDelete, pin)
	assert.False(t, d.Allowed)
}

func TestAuthorize_CreateRequiresMatchingOwner(t *testing.T) {
	engine := newTestEngine()

	d := engine.Authorize(alice(), KindPin, OpCreate, &models.Pin{Username: "alice"})
	assert.True(t, d.Allowed)

	d = engine.Authorize(alice(), KindPin, OpCreate, &models.Pin{Username: "bob"})
	assert.False(t, d.Allowed, "cannot create content owned by someone else")

	d = engine.Authorize(identity.Anonymous(), KindPin, OpCreate, &models.Pin{Username: "alice"})
	assert.False(t, d.Allowed)

	// Guests self-assert their username.
	d = engine.Authorize(guest(), KindComment, OpCreate, &models.Comment{Username: "1234567"})
	assert.True(t, d.Allowed)
}

func TestAuthorize_NotificationCreateIsUnrestricted(t *testing.T) {
	engine := newTestEngine()

	// Notification creation models an internal side effect.
	d := engine.Authorize(identity.Anonymous(), KindNotification, OpCreate, nil)
	assert.True(t, d.Allowed)
}

func TestAuthorize_NotificationReadRecipientOnly(t *testing.T) {
	engine := newTestEngine()
	n := &models.Notification{RecipientUsername: "alice", SenderUsername: "bob"}

	assert.True(t, engine.Authorize(alice(), KindNotification, OpRead, n).Allowed)
	assert.True(t, engine.Authorize(admin(), KindNotification, OpRead, n).Allowed)

	bob := identity.Authenticated(uuid.New(), "bob", models.RoleUser)
	assert.False(t, engine.Authorize(bob, KindNotification, OpRead, n).Allowed,
		"even the sender may not read the recipient's notification")
	assert.False(t, engine.Authorize(identity.Anonymous(), KindNotification, OpRead, n).Allowed)
}

func TestAuthorize_NotificationUpdateRecipientOnly(t *testing.T) {
	engine := newTestEngine()
	n := &models.Notification{RecipientUsername: "alice"}

	assert.True(t, engine.Authorize(alice(), KindNotification, OpUpdate, n).Allowed)
	assert.True(t, engine.Authorize(admin(), KindNotification, OpUpdate, n).Allowed)

	bob := identity.Authenticated(uuid.New(), "bob", models.RoleUser)
	assert.False(t, engine.Authorize(bob, KindNotification, OpUpdate, n).Allowed)
}

func TestAuthorize_LikesDoNotSupportUpdate(t *testing.T) {
	engine := newTestEngine()
	like := &models.Like{Username: "alice"}

	d := engine.Authorize(alice(), KindLike, OpUpdate, like)
	assert.False(t, d.Allowed)

	// Delete (unlike) still follows the ownership rule.
	assert.True(t, engine.Authorize(alice(), KindLike, OpDelete, like).Allowed)
}

func TestAuthorize_ReadVisibility(t *testing.T) {
	engine := newTestEngine()
	bob := identity.Authenticated(uuid.New(), "bob", models.RoleUser)

	t.Run("pins are public", func(t *testing.T) {
		d := engine.Authorize(identity.Anonymous(), KindPin, OpRead, &models.Pin{Username: "alice"})
		assert.True(t, d.Allowed)
	})

	t.Run("inactive marketplace item hidden from strangers", func(t *testing.T) {
		item := &models.MarketplaceItem{SellerUsername: "alice", IsActive: false}
		assert.False(t, engine.Authorize(bob, KindMarketplaceItem, OpRead, item).Allowed)
		assert.True(t, engine.Authorize(alice(), KindMarketplaceItem, OpRead, item).Allowed)
		assert.True(t, engine.Authorize(admin(), KindMarketplaceItem, OpRead, item).Allowed)

		item.IsActive = true
		assert.True(t, engine.Authorize(bob, KindMarketplaceItem, OpRead, item).Allowed)
	})

	t.Run("unpublished blog post visible only to author", func(t *testing.T) {
		post := &models.BlogPost{AuthorUsername: "alice", IsPublished: false}
		assert.False(t, engine.Authorize(bob, KindBlogPost, OpRead, post).Allowed)
		assert.False(t, engine.Authorize(identity.Anonymous(), KindBlogPost, OpRead, post).Allowed)
		assert.True(t, engine.Authorize(alice(), KindBlogPost, OpRead, post).Allowed)

		post.IsPublished = true
		assert.True(t, engine.Authorize(identity.Anonymous(), KindBlogPost, OpRead, post).Allowed)
	})

	t.Run("chat message visible only to participants", func(t *testing.T) {
		msg := &models.ChatMessage{Username: "alice", Recipient: "bob"}
		assert.True(t, engine.Authorize(alice(), KindChatMessage, OpRead, msg).Allowed)
		assert.True(t, engine.Authorize(bob, KindChatMessage, OpRead, msg).Allowed)
		carol := identity.Authenticated(uuid.New(), "carol", models.RoleUser)
		assert.False(t, engine.Authorize(carol, KindChatMessage, OpRead, msg).Allowed)
	})
}

func TestAuthorize_UnknownKind(t *testing.T) {
	engine := newTestEngine()

	d := engine.Authorize(alice(), Kind("wizard"), OpRead, nil)
	assert.False(t, d.Allowed)
}

func TestDecision_Err(t *testing.T) {
	require.NoError(t, Allow().Err())

	err := Deny("nope").Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Contains(t, err.Error(), "nope")
}
