package validate

import (
	"errors"
	"fmt"

	"github.com/fellowshipfinder/backend/internal/models"
)

// ErrValidationFailed wraps every field constraint violation. Checks run
// before any write; a failing entity never reaches storage.
var ErrValidationFailed = errors.New("validation failed")

const (
	maxTitleLength           = 200
	maxCommentLength         = 100
	maxBlogPostCommentLength = 1000
	maxChatMessageLength     = 1000
)

func fail(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

func Pin(p *models.Pin) error {
	if p.Title == "" {
		return fail("pin title is required")
	}
	if len(p.Title) > maxTitleLength {
		return fail("pin title exceeds %d characters", maxTitleLength)
	}
	if p.ImageURL == "" {
		return fail("pin image is required")
	}
	return nil
}

func Comment(c *models.Comment) error {
	if c.Text == "" {
		return fail("comment text is required")
	}
	if len(c.Text) > maxCommentLength {
		return fail("comment exceeds %d characters", maxCommentLength)
	}
	return nil
}

func BlogPost(p *models.BlogPost) error {
	if p.Title == "" {
		return fail("blog post title is required")
	}
	if len(p.Title) > maxTitleLength {
		return fail("blog post title exceeds %d characters", maxTitleLength)
	}
	if p.Content == "" {
		return fail("blog post content is required")
	}
	return nil
}

func BlogPostComment(c *models.BlogPostComment) error {
	if c.Text == "" {
		return fail("comment text is required")
	}
	if len(c.Text) > maxBlogPostCommentLength {
		return fail("comment exceeds %d characters", maxBlogPostCommentLength)
	}
	return nil
}

func MarketplaceItem(m *models.MarketplaceItem) error {
	if m.Title == "" {
		return fail("listing title is required")
	}
	if len(m.Title) > maxTitleLength {
		return fail("listing title exceeds %d characters", maxTitleLength)
	}
	if m.Price < 0 {
		return fail("price cannot be negative")
	}
	return nil
}

func ChatMessage(m *models.ChatMessage) error {
	if m.Text == "" {
		return fail("message text is required")
	}
	if len(m.Text) > maxChatMessageLength {
		return fail("message exceeds %d characters", maxChatMessageLength)
	}
	if m.Recipient == "" {
		return fail("message recipient is required")
	}
	return nil
}
