package authz

import (
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
)

type Kind string

const (
	KindPin                 Kind = "pin"
	KindComment             Kind = "comment"
	KindLike                Kind = "like"
	KindCommentLike         Kind = "comment_like"
	KindBlogPost            Kind = "blog_post"
	KindBlogPostComment     Kind = "blog_post_comment"
	KindBlogPostLike        Kind = "blog_post_like"
	KindBlogPostCommentLike Kind = "blog_post_comment_like"
	KindMarketplaceItem     Kind = "marketplace_item"
	KindChatMessage         Kind = "chat_message"
	KindNotification        Kind = "notification"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Descriptor declares, per entity kind, where the owner username lives,
// whether the kind supports Update, and any read-visibility condition
// beyond "public". The owner field is immutable once set; the engine
// only ever reads it.
type Descriptor struct {
	Kind Kind

	// Owner extracts the owner username from an entity instance.
	// Returns "" when the instance is not of the expected type.
	Owner func(entity any) string

	// Readable overrides public read when set: the entity is visible
	// only when the predicate holds for the caller.
	Readable func(id identity.Identity, entity any) bool

	// Updatable is false for like rows, which only support create and
	// delete.
	Updatable bool
}

// Registry maps every entity kind to its descriptor. It is the single
// place that knows which field names the owner ("username",
// "seller_username", "author_username", "recipient_username").
type Registry struct {
	descriptors map[Kind]Descriptor
}

func NewRegistry() *Registry {
	r := &Registry{descriptors: make(map[Kind]Descriptor)}
	for _, d := range defaultDescriptors() {
		r.descriptors[d.Kind] = d
	}
	return r
}

func (r *Registry) Lookup(kind Kind) (Descriptor, bool) {
	d, ok := r.descriptors[kind]
	return d, ok
}

func defaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Kind:      KindPin,
			Updatable: true,
			Owner: func(e any) string {
				if p, ok := e.(*models.Pin); ok {
					return p.Username
				}
				return ""
			},
		},
		{
			Kind:      KindComment,
			Updatable: true,
			Owner: func(e any) string {
				if c, ok := e.(*models.Comment); ok {
					return c.Username
				}
				return ""
			},
		},
		{
			Kind: KindLike,
			Owner: func(e any) string {
				if l, ok := e.(*models.Like); ok {
					return l.Username
				}
				return ""
			},
		},
		{
			Kind: KindCommentLike,
			Owner: func(e any) string {
				if l, ok := e.(*models.CommentLike); ok {
					return l.Username
				}
				return ""
			},
		},
		{
			Kind:      KindBlogPost,
			Updatable: true,
			Owner: func(e any) string {
				if p, ok := e.(*models.BlogPost); ok {
					return p.AuthorUsername
				}
				return ""
			},
			// Unpublished drafts stay private to the author.
			Readable: func(id identity.Identity, e any) bool {
				p, ok := e.(*models.BlogPost)
				if !ok {
					return false
				}
				return p.IsPublished || id.IsAdmin() || id.Username == p.AuthorUsername
			},
		},
		{
			Kind:      KindBlogPostComment,
			Updatable: true,
			Owner: func(e any) string {
				if c, ok := e.(*models.BlogPostComment); ok {
					return c.Username
				}
				return ""
			},
		},
		{
			Kind: KindBlogPostLike,
			Owner: func(e any) string {
				if l, ok := e.(*models.BlogPostLike); ok {
					return l.Username
				}
				return ""
			},
		},
		{
			Kind: KindBlogPostCommentLike,
			Owner: func(e any) string {
				if l, ok := e.(*models.BlogPostCommentLike); ok {
					return l.Username
				}
				return ""
			},
		},
		{
			Kind:      KindMarketplaceItem,
			Updatable: true,
			Owner: func(e any) string {
				if m, ok := e.(*models.MarketplaceItem); ok {
					return m.SellerUsername
				}
				return ""
			},
			// Inactive listings stay private to the seller.
			Readable: func(id identity.Identity, e any) bool {
				m, ok := e.(*models.MarketplaceItem)
				if !ok {
					return false
				}
				return m.IsActive || id.IsAdmin() || id.Username == m.SellerUsername
			},
		},
		{
			Kind:      KindChatMessage,
			Updatable: true,
			Owner: func(e any) string {
				if m, ok := e.(*models.ChatMessage); ok {
					return m.Username
				}
				return ""
			},
			// DMs are visible only to the two participants.
			Readable: func(id identity.Identity, e any) bool {
				m, ok := e.(*models.ChatMessage)
				if !ok {
					return false
				}
				return id.IsAdmin() || id.Username == m.Username || id.Username == m.Recipient
			},
		},
		{
			Kind:      KindNotification,
			Updatable: true,
			Owner: func(e any) string {
				if n, ok := e.(*models.Notification); ok {
					return n.RecipientUsername
				}
				return ""
			},
			Readable: func(id identity.Identity, e any) bool {
				n, ok := e.(*models.Notification)
				if !ok {
					return false
				}
				return id.IsAdmin() || id.Username == n.RecipientUsername
			},
		},
	}
}
