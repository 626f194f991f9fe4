package service_test

import (
	"strings"
	"testing"
	"unicode/utf8"

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

type BlogServiceIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	testRedis   *testutil.TestRedis
	blogService *service.BlogService

	alice identity.Identity
	bob   identity.Identity
	admin identity.Identity
}

func (s *BlogServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	redisBroker, err := broker.NewRedisEventBroker(s.testRedis.URL)
	assert.NoError(s.T(), err)

	engine := authz.NewEngine(authz.NewRegistry())
	blogRepo := repository.NewBlogRepository(s.testDB.DB)
	s.blogService = service.NewBlogService(s.testDB.DB, blogRepo, engine, redisBroker)

	s.alice = identity.Authenticated(uuid.New(), "alice", models.RoleUser)
	s.bob = identity.Authenticated(uuid.New(), "bob", models.RoleUser)
	s.admin = identity.Authenticated(uuid.New(), "root", models.RoleAdmin)
}

func (s *BlogServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
	s.testRedis.Teardown(s.T())
}

func (s *BlogServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *BlogServiceIntegrationTestSuite) TestCreatePostDerivesExcerpt() {
	content := "<h1>Title</h1><p>" + strings.Repeat("word ", 300) + "</p>"
	post, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Long read", content, true))
	assert.NoError(s.T(), err)

	// 300 visible characters plus the ellipsis, no markup
	assert.Equal(s.T(), 303, utf8.RuneCountInString(post.Excerpt))
	assert.True(s.T(), strings.HasSuffix(post.Excerpt, "..."))
	assert.NotContains(s.T(), post.Excerpt, "<")

	// The derived value is persisted, not just in-memory
	var stored models.BlogPost
	s.testDB.DB.First(&stored, "id = ?", post.ID)
	assert.Equal(s.T(), post.Excerpt, stored.Excerpt)
}

func (s *BlogServiceIntegrationTestSuite) TestShortContentExcerptVerbatim() {
	post, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Short", "<p>Hello world</p>", true))
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Hello world", post.Excerpt)
}

func (s *BlogServiceIntegrationTestSuite) TestUpdateReDerivesExcerpt() {
	post, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Post", "<p>First version</p>", true))
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "First version", post.Excerpt)

	updated, err := s.blogService.UpdatePost(s.alice, post.ID, "Post", "<p>Second version</p>", "", true)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Second version", updated.Excerpt)
}

func (s *BlogServiceIntegrationTestSuite) TestDraftVisibility() {
	draft, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Draft", "work in progress", false))
	assert.NoError(s.T(), err)

	// Author sees it
	got, err := s.blogService.GetPost(s.alice, draft.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), draft.ID, got.ID)

	// Admin sees it
	_, err = s.blogService.GetPost(s.admin, draft.ID)
	assert.NoError(s.T(), err)

	// Everyone else does not
	_, err = s.blogService.GetPost(s.bob, draft.ID)
	assert.ErrorIs(s.T(), err, authz.ErrPermissionDenied)
	_, err = s.blogService.GetPost(identity.Anonymous(), draft.ID)
	assert.ErrorIs(s.T(), err, authz.ErrPermissionDenied)
}

func (s *BlogServiceIntegrationTestSuite) TestListByAuthorFiltersDrafts() {
	_, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Published", "live", true))
	assert.NoError(s.T(), err)
	_, err = s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Draft", "hidden", false))
	assert.NoError(s.T(), err)

	own, err := s.blogService.ListByAuthor(s.alice, "alice")
	assert.NoError(s.T(), err)
	assert.Len(s.T(), own, 2)

	others, err := s.blogService.ListByAuthor(s.bob, "alice")
	assert.NoError(s.T(), err)
	assert.Len(s.T(), others, 1)
	assert.Equal(s.T(), "Published", others[0].Title)
}

func (s *BlogServiceIntegrationTestSuite) TestCommentOnDraftDenied() {
	draft, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Draft", "hidden", false))
	assert.NoError(s.T(), err)

	_, err = s.blogService.CreateComment(s.bob, &models.BlogPostComment{
		BlogPostID: draft.ID,
		Username:   "bob",
		Text:       "sneaky comment",
	})
	assert.ErrorIs(s.T(), err, authz.ErrPermissionDenied)
}

func (s *BlogServiceIntegrationTestSuite) TestCommentFanOut() {
	post, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Post", "content", true))
	assert.NoError(s.T(), err)

	_, err = s.blogService.CreateComment(s.bob, &models.BlogPostComment{
		BlogPostID: post.ID,
		Username:   "bob",
		Text:       "interesting take",
	})
	assert.NoError(s.T(), err)

	var notifications []models.Notification
	s.testDB.DB.Where("recipient_username = ?", "alice").Find(&notifications)
	assert.Len(s.T(), notifications, 1)
	assert.Equal(s.T(), "bob commented on your blog post", notifications[0].Message)
}

func (s *BlogServiceIntegrationTestSuite) TestLikePostFanOutAndNoSelfNotification() {
	post, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Post", "content", true))
	assert.NoError(s.T(), err)

	_, err = s.blogService.LikePost(s.alice, post.ID)
	assert.NoError(s.T(), err)
	_, err = s.blogService.LikePost(s.bob, post.ID)
	assert.NoError(s.T(), err)

	var notifications []models.Notification
	s.testDB.DB.Find(&notifications)
	assert.Len(s.T(), notifications, 1)
	assert.Equal(s.T(), "bob", notifications[0].SenderUsername)
}

func (s *BlogServiceIntegrationTestSuite) TestDeletePostCascades() {
	post, err := s.blogService.CreatePost(s.alice, testutil.CreateTestBlogPost("alice", "Post", "content", true))
	assert.NoError(s.T(), err)

	comment, err := s.blogService.CreateComment(s.bob, &models.BlogPostComment{
		BlogPostID: post.ID,
		Username:   "bob",
		Text:       "soon gone",
	})
	assert.NoError(s.T(), err)
	_, err = s.blogService.LikeComment(s.alice, comment.ID)
	assert.NoError(s.T(), err)

	err = s.blogService.DeletePost(s.alice, post.ID)
	assert.NoError(s.T(), err)

	var posts, comments, commentLikes int64
	s.testDB.DB.Model(&models.BlogPost{}).Count(&posts)
	s.testDB.DB.Model(&models.BlogPostComment{}).Count(&comments)
	s.testDB.DB.Model(&models.BlogPostCommentLike{}).Count(&commentLikes)
	assert.Zero(s.T(), posts)
	assert.Zero(s.T(), comments)
	assert.Zero(s.T(), commentLikes)
}

func TestBlogServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BlogServiceIntegrationTestSuite))
}
