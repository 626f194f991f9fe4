package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/fellowshipfinder/backend/internal/testutil"
	"github.com/fellowshipfinder/backend/internal/utils"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AccountServiceIntegrationTestSuite struct {
	suite.Suite
	testDB         *testutil.TestDatabase
	accountService *service.AccountService
}

func (s *AccountServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())

	userRepo := repository.NewUserRepository(s.testDB.DB)
	wordRepo := repository.NewForbiddenWordRepository(s.testDB.DB)
	s.accountService = service.NewAccountService(userRepo, wordRepo, "test-secret", 24*time.Hour, "test")
}

func (s *AccountServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *AccountServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *AccountServiceIntegrationTestSuite) TestRegisterAndLogin() {
	user, token, err := s.accountService.Register("alice", "alice@example.com", "Secret12345")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "alice", user.Username)
	assert.NotEmpty(s.T(), token)

	claims, err := utils.ValidateToken(token, "test-secret")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "alice", claims.Username)
	assert.Equal(s.T(), models.RoleUser, claims.Role)

	_, _, err = s.accountService.Login("alice@example.com", "Secret12345")
	assert.NoError(s.T(), err)

	_, _, err = s.accountService.Login("alice@example.com", "wrong-password")
	assert.ErrorIs(s.T(), err, service.ErrInvalidCredentials)
}

func (s *AccountServiceIntegrationTestSuite) TestRegisterDuplicateEmail() {
	_, _, err := s.accountService.Register("alice", "alice@example.com", "Secret12345")
	assert.NoError(s.T(), err)

	_, _, err = s.accountService.Register("alice2", "alice@example.com", "Secret12345")
	assert.ErrorIs(s.T(), err, service.ErrEmailAlreadyExists)
}

func (s *AccountServiceIntegrationTestSuite) TestRegisterForbiddenWordFatal() {
	_, err := s.accountService.AddForbiddenWord("badword")
	assert.NoError(s.T(), err)

	_, _, err = s.accountService.Register("TheBadWordFan", "fan@example.com", "Secret12345")
	assert.ErrorIs(s.T(), err, identity.ErrForbiddenUsername)

	// No account was created
	var count int64
	s.testDB.DB.Model(&models.User{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *AccountServiceIntegrationTestSuite) TestRegisterEmptyUsernameGenerated() {
	user, _, err := s.accountService.Register("", "noname@example.com", "Secret12345")
	assert.NoError(s.T(), err)
	assert.True(s.T(), strings.HasPrefix(user.Username, "user_"))
	assert.Len(s.T(), user.Username, len("user_")+8)
}

func (s *AccountServiceIntegrationTestSuite) TestRegisterCollisionGetsSuffix() {
	first, _, err := s.accountService.Register("taken", "first@example.com", "Secret12345")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "taken", first.Username)

	second, _, err := s.accountService.Register("taken", "second@example.com", "Secret12345")
	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), "taken", second.Username)
	assert.True(s.T(), strings.HasPrefix(second.Username, "taken"))
}

func (s *AccountServiceIntegrationTestSuite) TestRegisterGuestNamespaceReserved() {
	_, _, err := s.accountService.Register("1234567", "guestish@example.com", "Secret12345")
	assert.ErrorIs(s.T(), err, service.ErrReservedUsername)
}

func (s *AccountServiceIntegrationTestSuite) TestBannedUsernameStaysReserved() {
	user, _, err := s.accountService.Register("banned_user", "banned@example.com", "Secret12345")
	assert.NoError(s.T(), err)

	err = s.accountService.BanUser(user.ID.String(), "root", "spam")
	assert.NoError(s.T(), err)

	// Login is gone
	_, _, err = s.accountService.Login("banned@example.com", "Secret12345")
	assert.ErrorIs(s.T(), err, service.ErrInvalidCredentials)

	// The username is still taken: a re-registration gets a suffix
	again, _, err := s.accountService.Register("banned_user", "other@example.com", "Secret12345")
	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), "banned_user", again.Username)
}

func TestAccountServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceIntegrationTestSuite))
}
