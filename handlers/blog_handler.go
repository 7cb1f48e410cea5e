package handlers

import (
	"net/http"

	"optinet-backend/models"
	"optinet-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BlogHandler handles HTTP requests for blog posts
type BlogHandler struct {
	contentService *service.ContentService
	blogRepo       service.BlogStore
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(contentService *service.ContentService, blogRepo service.BlogStore) *BlogHandler {
	return &BlogHandler{contentService: contentService, blogRepo: blogRepo}
}

// BlogPostRequest represents the request body for creating or updating a post
type BlogPostRequest struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Published *bool  `json:"published"`
}

// Create handles POST /api/blog
func (h *BlogHandler) Create(c *gin.Context) {
	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	post := &models.BlogPost{
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Body:    req.Body,
		Author:  req.Author,
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := h.contentService.CreatePost(c.Request.Context(), post); err != nil {
		respondServiceError(c, err, "Blog post not found")
		return
	}

	respondOK(c, http.StatusCreated, post)
}

// List handles GET /api/blog. The public route only returns published
// posts; authenticated callers see drafts too.
func (h *BlogHandler) List(publishedOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset, err := pageParams(c)
		if err != nil {
			respondBadRequest(c, err)
			return
		}

		posts, err := h.blogRepo.List(c.Request.Context(), publishedOnly, limit, offset)
		if err != nil {
			respondServiceError(c, err, "Blog post not found")
			return
		}

		respondOK(c, http.StatusOK, posts)
	}
}

// GetBySlug handles GET /api/blog/:slug
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.blogRepo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Blog post not found")
		return
	}

	respondOK(c, http.StatusOK, post)
}

// Update handles PUT /api/blog/:id. The slug is regenerated only when the
// title changes.
func (h *BlogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	post, err := h.blogRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Blog post not found")
		return
	}

	titleChanged := req.Title != "" && req.Title != post.Title
	if req.Title != "" {
		post.Title = req.Title
	}
	post.Excerpt = req.Excerpt
	post.Body = req.Body
	post.Author = req.Author
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := h.contentService.UpdatePost(c.Request.Context(), post, titleChanged); err != nil {
		respondServiceError(c, err, "Blog post not found")
		return
	}

	respondOK(c, http.StatusOK, post)
}

// Delete handles DELETE /api/blog/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.blogRepo.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Blog post not found")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Blog post deleted"})
}
