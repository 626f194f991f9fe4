package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword      = "SecurePassword123!"
	testWrongPassword = "WrongPassword456!"
)

func TestHashPassword_Success(t *testing.T) {
	hash, err := HashPassword(testPassword)

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, testPassword, hash)
	assert.Contains(t, hash, "$argon2id$", "Hash should carry the Argon2id identifier")
}

func TestHashPassword_UniqueHashes(t *testing.T) {
	hash1, err1 := HashPassword(testPassword)
	hash2, err2 := HashPassword(testPassword)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2, "Same password should produce different hashes due to unique salt")
}

func TestHashPassword_LongPassword(t *testing.T) {
	password := strings.Repeat("a", 1000)
	hash, err := HashPassword(password)
	require.NoError(t, err)

	match, err := VerifyPassword(password, hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	invalidHashes := []string{
		"",
		"plain-text-not-hash",
		"$invalid$format$",
		"$argon2id$v=19$m=65536",
		"$argon2id$v=19$m=65536$corrupted",
	}

	for _, invalidHash := range invalidHashes {
		t.Run(invalidHash, func(t *testing.T) {
			match, err := VerifyPassword(testPassword, invalidHash)
			assert.Error(t, err)
			assert.False(t, match)
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	testCases := []struct {
		name        string
		password    string
		testPass    string
		expectMatch bool
	}{
		{"correct_password", testPassword, testPassword, true},
		{"incorrect_password", testPassword, testWrongPassword, false},
		{"empty_password", "", "", true},
		{"special_characters", "P@ssw0rd!#$%", "P@ssw0rd!#$%", true},
		{"case_sensitive", "Password123", "password123", false},
		{"whitespace_matters", "Password123 ", "Password123", false},
		{"unicode_password", "pässwörd123!", "pässwörd123!", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := HashPassword(tc.password)
			require.NoError(t, err)

			match, err := VerifyPassword(tc.testPass, hash)
			require.NoError(t, err)
			assert.Equal(t, tc.expectMatch, match)
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword(testPassword)
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	hash, _ := HashPassword(testPassword)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = VerifyPassword(testPassword, hash)
	}
}
