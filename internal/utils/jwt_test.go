package utils

import (
	"testing"
	"time"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func testUser(role models.Role) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "samwise",
		Email:    "sam@shire.example",
		Role:     role,
	}
}

func TestGenerateToken_Success(t *testing.T) {
	user := testUser(models.RoleUser)

	token, err := GenerateToken(user, testSecret, time.Hour)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	user := testUser(models.RoleAdmin)
	token, err := GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "samwise", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(models.RoleUser), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "a-different-secret")

	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken(testUser(models.RoleUser), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)

	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.Error(t, err)
}
