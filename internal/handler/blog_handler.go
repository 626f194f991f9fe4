package handler

import (
	"net/http"

	"github.com/fellowshipfinder/backend/internal/middleware"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	blogService *service.BlogService
}

func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

type BlogPostRequest struct {
	Title         string `json:"title" binding:"required"`
	Content       string `json:"content" binding:"required"`
	CoverImageURL string `json:"cover_image_url"`
	IsPublished   bool   `json:"is_published"`
}

// POST /api/blog
func (h *BlogHandler) Create(c *gin.Context) {
	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.CurrentIdentity(c)
	post := &models.BlogPost{
		AuthorUsername: actor.Username,
		Title:          req.Title,
		Content:        req.Content,
		CoverImageURL:  req.CoverImageURL,
		IsPublished:    req.IsPublished,
	}

	created, err := h.blogService.CreatePost(actor, post)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": created})
}

// GET /api/blog
func (h *BlogHandler) List(c *gin.Context) {
	posts, err := h.blogService.ListPublished(queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// GET /api/users/:username/blog
func (h *BlogHandler) ListByAuthor(c *gin.Context) {
	posts, err := h.blogService.ListByAuthor(middleware.CurrentIdentity(c), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GET /api/blog/:id
func (h *BlogHandler) Get(c *gin.Context) {
	postID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	post, err := h.blogService.GetPost(middleware.CurrentIdentity(c), postID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// PUT /api/blog/:id
func (h *BlogHandler) Update(c *gin.Context) {
	postID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.blogService.UpdatePost(middleware.CurrentIdentity(c), postID, req.Title, req.Content, req.CoverImageURL, req.IsPublished)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DELETE /api/blog/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	postID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.DeletePost(middleware.CurrentIdentity(c), postID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// POST /api/blog/:id/comments
func (h *BlogHandler) CreateComment(c *gin.Context) {
	postID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.CurrentIdentity(c)
	comment := &models.BlogPostComment{
		BlogPostID: postID,
		Username:   actor.Username,
		Text:       req.Text,
	}

	created, err := h.blogService.CreateComment(actor, comment)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": created})
}

// GET /api/blog/:id/comments
func (h *BlogHandler) ListComments(c *gin.Context) {
	postID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	comments, err := h.blogService.ListComments(postID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// PUT /api/blog/comments/:id
func (h *BlogHandler) UpdateComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.blogService.UpdateComment(middleware.CurrentIdentity(c), commentID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DELETE /api/blog/comments/:id
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.DeleteComment(middleware.CurrentIdentity(c), commentID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// POST /api/blog/:id/like
func (h *BlogHandler) Like(c *gin.Context) {
	postID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	like, err := h.blogService.LikePost(middleware.CurrentIdentity(c), postID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"like": like})
}

// DELETE /api/blog/:id/like
func (h *BlogHandler) Unlike(c *gin.Context) {
	postID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.UnlikePost(middleware.CurrentIdentity(c), postID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}

// POST /api/blog/comments/:id/like
func (h *BlogHandler) LikeComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	like, err := h.blogService.LikeComment(middleware.CurrentIdentity(c), commentID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"like": like})
}

// DELETE /api/blog/comments/:id/like
func (h *BlogHandler) UnlikeComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.UnlikeComment(middleware.CurrentIdentity(c), commentID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}
