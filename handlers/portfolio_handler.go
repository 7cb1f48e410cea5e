package handlers

import (
	"log"
	"mime/multipart"
	"net/http"

	"optinet-backend/models"
	"optinet-backend/service"
	"optinet-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImageSize caps uploaded portfolio images at 10 MB.
const maxImageSize = 10 << 20

// PortfolioHandler handles HTTP requests for portfolio items
type PortfolioHandler struct {
	contentService *service.ContentService
	portfolioRepo  service.PortfolioStore
	storage        storage.Storage
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(contentService *service.ContentService, portfolioRepo service.PortfolioStore, store storage.Storage) *PortfolioHandler {
	return &PortfolioHandler{
		contentService: contentService,
		portfolioRepo:  portfolioRepo,
		storage:        store,
	}
}

func (h *PortfolioHandler) withImageURL(item *models.PortfolioItem) *models.PortfolioItem {
	if item.ImagePath != "" {
		item.ImageURL = h.storage.PublicURL(item.ImagePath)
	}
	return item
}

// Create handles POST /api/portfolio. The request is multipart form data
// with an optional image file.
func (h *PortfolioHandler) Create(c *gin.Context) {
	item := &models.PortfolioItem{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}

	if file, err := c.FormFile("image"); err == nil {
		storagePath, err := h.saveImage(c, file)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		item.ImagePath = storagePath
	}

	if err := h.contentService.CreatePortfolioItem(c.Request.Context(), item); err != nil {
		if item.ImagePath != "" {
			if delErr := h.storage.Delete(c.Request.Context(), item.ImagePath); delErr != nil {
				log.Printf("Warning: failed to remove orphaned upload %s: %v", item.ImagePath, delErr)
			}
		}
		respondServiceError(c, err, "Portfolio item not found")
		return
	}

	respondOK(c, http.StatusCreated, h.withImageURL(item))
}

// List handles GET /api/portfolio
func (h *PortfolioHandler) List(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	items, err := h.portfolioRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err, "Portfolio item not found")
		return
	}

	for _, item := range items {
		h.withImageURL(item)
	}

	respondOK(c, http.StatusOK, items)
}

// Get handles GET /api/portfolio/:id
func (h *PortfolioHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.portfolioRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Portfolio item not found")
		return
	}

	respondOK(c, http.StatusOK, h.withImageURL(item))
}

// Update handles PUT /api/portfolio/:id. A new image replaces and removes
// the previous one; the slug is regenerated only when the title changes.
func (h *PortfolioHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.portfolioRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Portfolio item not found")
		return
	}

	title := c.PostForm("title")
	titleChanged := title != "" && title != item.Title
	if title != "" {
		item.Title = title
	}
	if desc, ok := c.GetPostForm("description"); ok {
		item.Description = desc
	}
	if category, ok := c.GetPostForm("category"); ok {
		item.Category = category
	}

	oldImage := ""
	if file, err := c.FormFile("image"); err == nil {
		storagePath, err := h.saveImage(c, file)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		oldImage = item.ImagePath
		item.ImagePath = storagePath
	}

	if err := h.contentService.UpdatePortfolioItem(c.Request.Context(), item, titleChanged); err != nil {
		respondServiceError(c, err, "Portfolio item not found")
		return
	}

	if oldImage != "" {
		if err := h.storage.Delete(c.Request.Context(), oldImage); err != nil {
			log.Printf("Warning: failed to remove replaced image %s: %v", oldImage, err)
		}
	}

	respondOK(c, http.StatusOK, h.withImageURL(item))
}

// Delete handles DELETE /api/portfolio/:id
func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.portfolioRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Portfolio item not found")
		return
	}

	if err := h.portfolioRepo.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Portfolio item not found")
		return
	}

	if item.ImagePath != "" {
		if err := h.storage.Delete(c.Request.Context(), item.ImagePath); err != nil {
			log.Printf("Warning: failed to remove image %s: %v", item.ImagePath, err)
		}
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Portfolio item deleted"})
}

func (h *PortfolioHandler) saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > maxImageSize {
		return "", &service.ValidationError{Problems: []string{"image exceeds the 10MB limit"}}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.storage.Upload(c.Request.Context(), file.Filename, src)
}
