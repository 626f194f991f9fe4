package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrForbiddenUsername = errors.New("username contains a forbidden word")

	// maxCollisionRetries bounds how many suffixed candidates are tried
	// before giving up on a human-readable name.
	maxCollisionRetries = 10
)

// ExistsFunc reports whether a username is already taken. Storage errors
// propagate out of ValidateUsername unchanged.
type ExistsFunc func(username string) (bool, error)

// ValidateUsername runs the account-creation username policy:
//
//  1. Empty candidate defaults to "user_" + first 8 chars of a fresh id.
//  2. Candidates containing any forbidden word (case-insensitive
//     substring) are rejected outright; this is fatal to creation.
//  3. On collision with an existing username, an 8-char random suffix is
//     appended and retried, up to 10 attempts; after that the name falls
//     back to a fully random, guaranteed-unique id with no
//     human-readable component.
//
// The returned name is the one to persist.
func ValidateUsername(candidate string, forbiddenWords []string, exists ExistsFunc) (string, error) {
	if candidate == "" {
		candidate = "user_" + uuid.NewString()[:8]
	}

	if word, ok := containsForbiddenWord(candidate, forbiddenWords); ok {
		return "", fmt.Errorf("%w: %q", ErrForbiddenUsername, word)
	}

	taken, err := exists(candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}

	for i := 0; i < maxCollisionRetries; i++ {
		suffixed := candidate + "_" + randomSuffix(8)
		taken, err := exists(suffixed)
		if err != nil {
			return "", err
		}
		if !taken {
			return suffixed, nil
		}
	}

	// Exhausted: a random id collides with nothing a human would pick.
	return "user_" + uuid.NewString(), nil
}

func containsForbiddenWord(candidate string, forbiddenWords []string) (string, bool) {
	lowered := strings.ToLower(candidate)
	for _, word := range forbiddenWords {
		if word == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(word)) {
			return word, true
		}
	}
	return "", false
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
