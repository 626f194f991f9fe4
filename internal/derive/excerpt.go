package derive

import "regexp"

const excerptLength = 300

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Excerpt derives a blog post excerpt from its content: all markup tags
// are stripped, then the first 300 characters are taken, with "..."
// appended when the stripped text was longer. Idempotent:
// Excerpt(Excerpt(c)) == Excerpt(c) for any content.
func Excerpt(content string) string {
	stripped := tagPattern.ReplaceAllString(content, "")
	runes := []rune(stripped)
	if len(runes) <= excerptLength {
		return stripped
	}
	return string(runes[:excerptLength]) + "..."
}
