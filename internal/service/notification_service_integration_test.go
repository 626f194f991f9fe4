package service_test

import (
	"testing"
	"time"

	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/broker"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/fellowshipfinder/backend/internal/testutil"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceIntegrationTestSuite struct {
	suite.Suite
	testDB       *testutil.TestDatabase
	testRedis    *testutil.TestRedis
	redisBroker  *broker.RedisEventBroker
	notifService *service.NotificationService

	alice identity.Identity
	bob   identity.Identity
	admin identity.Identity
}

func (s *NotificationServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	redisBroker, err := broker.NewRedisEventBroker(s.testRedis.URL)
	assert.NoError(s.T(), err)
	s.redisBroker = redisBroker

	engine := authz.NewEngine(authz.NewRegistry())
	notifRepo := repository.NewNotificationRepository(s.testDB.DB)
	s.notifService = service.NewNotificationService(notifRepo, engine, redisBroker)

	s.alice = identity.Authenticated(uuid.New(), "alice", models.RoleUser)
	s.bob = identity.Authenticated(uuid.New(), "bob", models.RoleUser)
	s.admin = identity.Authenticated(uuid.New(), "root", models.RoleAdmin)
}

func (s *NotificationServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
	s.testRedis.Teardown(s.T())
}

func (s *NotificationServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.testRedis.Server.FlushAll()
}

func (s *NotificationServiceIntegrationTestSuite) seedNotification(recipient string, read bool) *models.Notification {
	n := &models.Notification{
		RecipientUsername: recipient,
		SenderUsername:    "someone",
		Type:              models.NotificationLike,
		EntityType:        models.EntityPin,
		EntityID:          uuid.New(),
		Message:           "someone liked your pin",
		IsRead:            read,
	}
	assert.NoError(s.T(), s.testDB.DB.Create(n).Error)
	return n
}

func (s *NotificationServiceIntegrationTestSuite) TestListIsRecipientOnly() {
	s.seedNotification("alice", false)
	s.seedNotification("bob", false)

	own, err := s.notifService.List(s.alice, "", 50)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), own, 1)
	assert.Equal(s.T(), "alice", own[0].RecipientUsername)

	// Reading someone else's feed is denied
	_, err = s.notifService.List(s.alice, "bob", 50)
	assert.ErrorIs(s.T(), err, authz.ErrPermissionDenied)

	// Admins may inspect any recipient
	theirs, err := s.notifService.List(s.admin, "bob", 50)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), theirs, 1)
}

func (s *NotificationServiceIntegrationTestSuite) TestUnreadCountUsesCache() {
	s.seedNotification("alice", false)
	s.seedNotification("alice", false)
	s.seedNotification("alice", true)

	count, err := s.notifService.UnreadCount(s.alice)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), count)

	// A direct insert bypassing the service is invisible while the
	// cache is warm
	s.seedNotification("alice", false)
	count, err = s.notifService.UnreadCount(s.alice)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), count)

	// Once the TTL lapses the fresh value comes back
	s.testRedis.Server.FastForward(6 * time.Minute)
	count, err = s.notifService.UnreadCount(s.alice)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), count)
}

func (s *NotificationServiceIntegrationTestSuite) TestMarkReadRecipientOnly() {
	n := s.seedNotification("alice", false)

	err := s.notifService.MarkRead(s.bob, n.ID)
	assert.ErrorIs(s.T(), err, authz.ErrPermissionDenied)

	err = s.notifService.MarkRead(s.alice, n.ID)
	assert.NoError(s.T(), err)

	var stored models.Notification
	s.testDB.DB.First(&stored, "id = ?", n.ID)
	assert.True(s.T(), stored.IsRead)
	// Everything except the flag is untouched
	assert.Equal(s.T(), n.Message, stored.Message)
	assert.Equal(s.T(), n.SenderUsername, stored.SenderUsername)
}

func (s *NotificationServiceIntegrationTestSuite) TestMarkReadMissingNotFound() {
	err := s.notifService.MarkRead(s.alice, uuid.New())
	assert.ErrorIs(s.T(), err, service.ErrNotFound)
}

func (s *NotificationServiceIntegrationTestSuite) TestMarkReadInvalidatesCache() {
	n := s.seedNotification("alice", false)
	s.seedNotification("alice", false)

	count, err := s.notifService.UnreadCount(s.alice)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), count)

	assert.NoError(s.T(), s.notifService.MarkRead(s.alice, n.ID))

	count, err = s.notifService.UnreadCount(s.alice)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), count)
}

func (s *NotificationServiceIntegrationTestSuite) TestMarkAllRead() {
	s.seedNotification("alice", false)
	s.seedNotification("alice", false)
	s.seedNotification("bob", false)

	assert.NoError(s.T(), s.notifService.MarkAllRead(s.alice))

	var unreadAlice, unreadBob int64
	s.testDB.DB.Model(&models.Notification{}).Where("recipient_username = ? AND is_read = ?", "alice", false).Count(&unreadAlice)
	s.testDB.DB.Model(&models.Notification{}).Where("recipient_username = ? AND is_read = ?", "bob", false).Count(&unreadBob)
	assert.Zero(s.T(), unreadAlice)
	assert.Equal(s.T(), int64(1), unreadBob)
}

func TestNotificationServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceIntegrationTestSuite))
}
