package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neverExists(string) (bool, error) { return false, nil }

func TestValidateUsername_Accepted(t *testing.T) {
	name, err := ValidateUsername("frodo", []string{"badword"}, neverExists)

	require.NoError(t, err)
	assert.Equal(t, "frodo", name)
}

func TestValidateUsername_ForbiddenSubstring(t *testing.T) {
	// Case-insensitive substring match, not whole-word
	_, err := ValidateUsername("BadWordUser", []string{"badword"}, neverExists)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbiddenUsername)
}

func TestValidateUsername_ForbiddenIsFatal(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return false, nil
	}

	_, err := ValidateUsername("spammer", []string{"SPAM"}, exists)

	require.ErrorIs(t, err, ErrForbiddenUsername)
	assert.Zero(t, calls, "forbidden check must reject before any uniqueness lookup")
}

func TestValidateUsername_DefaultWhenEmpty(t *testing.T) {
	name, err := ValidateUsername("", nil, neverExists)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "user_"), "default name should be user_ prefixed, got %s", name)
	assert.Len(t, name, len("user_")+8)
}

func TestValidateUsername_CollisionAppendsSuffix(t *testing.T) {
	exists := func(username string) (bool, error) {
		return username == "frodo", nil
	}

	name, err := ValidateUsername("frodo", nil, exists)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "frodo_"), "expected suffixed name, got %s", name)
	assert.Len(t, name, len("frodo_")+8)
}

func TestValidateUsername_RetryBound(t *testing.T) {
	// Everything collides: exactly 1 initial lookup + 10 suffixed retries,
	// then the fully random fallback (no further lookups).
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return true, nil
	}

	name, err := ValidateUsername("frodo", nil, exists)

	require.NoError(t, err)
	assert.Equal(t, 11, calls)
	assert.True(t, strings.HasPrefix(name, "user_"), "fallback should be a generated name, got %s", name)
	assert.NotContains(t, name, "frodo", "fallback has no human-readable component")
}

func TestValidateUsername_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	exists := func(string) (bool, error) { return false, boom }

	_, err := ValidateUsername("frodo", nil, exists)

	assert.ErrorIs(t, err, boom)
}

func TestGuest_Pattern(t *testing.T) {
	id, ok := Guest("1234567")
	require.True(t, ok)
	assert.True(t, id.IsGuest)
	assert.Nil(t, id.ID)
	assert.False(t, id.IsAdmin(), "guests can never hold the admin role")

	_, ok = Guest("123456")
	assert.False(t, ok, "6 digits is not a guest username")

	_, ok = Guest("frodo")
	assert.False(t, ok)
}
