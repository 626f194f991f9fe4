package derive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt_ShortContentUnchanged(t *testing.T) {
	assert.Equal(t, "A short post.", Excerpt("A short post."))
}

func TestExcerpt_StripsMarkup(t *testing.T) {
	content := "<h1>Title</h1><p>Hello <strong>world</strong></p>"
	assert.Equal(t, "TitleHello world", Excerpt(content))
}

func TestExcerpt_TruncatesAt300WithEllipsis(t *testing.T) {
	content := strings.Repeat("a", 1500)

	got := Excerpt(content)

	assert.Len(t, got, 303)
	assert.Equal(t, strings.Repeat("a", 300)+"...", got)
}

func TestExcerpt_ExactBoundary(t *testing.T) {
	// Exactly 300 stripped characters: no ellipsis.
	content := strings.Repeat("b", 300)
	assert.Equal(t, content, Excerpt(content))

	// 301: truncated.
	got := Excerpt(content + "b")
	assert.Equal(t, content+"...", got)
}

func TestExcerpt_Idempotent(t *testing.T) {
	for _, content := range []string{
		"",
		"short",
		"<p>" + strings.Repeat("x", 1500) + "</p>",
		strings.Repeat("y", 300),
		strings.Repeat("z", 301),
	} {
		once := Excerpt(content)
		assert.Equal(t, once, Excerpt(once), "re-deriving must not change the excerpt")
	}
}

func TestExcerpt_CountsRunesNotBytes(t *testing.T) {
	content := strings.Repeat("é", 400)

	got := Excerpt(content)

	assert.Equal(t, strings.Repeat("é", 300)+"...", got)
}
