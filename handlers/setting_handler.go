package handlers

import (
	"net/http"

	"optinet-backend/repository"

	"github.com/gin-gonic/gin"
)

// SettingHandler handles HTTP requests for the singleton site settings
type SettingHandler struct {
	settingRepo *repository.SettingRepository
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(settingRepo *repository.SettingRepository) *SettingHandler {
	return &SettingHandler{settingRepo: settingRepo}
}

// Get handles GET /api/settings. The row is created with defaults the
// first time it is read.
func (h *SettingHandler) Get(c *gin.Context) {
	setting, err := h.settingRepo.GetOrCreate(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Settings not found")
		return
	}

	respondOK(c, http.StatusOK, setting)
}

// UpdateSettingRequest represents the request body for updating settings
type UpdateSettingRequest struct {
	SiteTitle            *string `json:"site_title"`
	AdminEmail           *string `json:"admin_email"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	Language             *string `json:"language"`
}

// Update handles PUT /api/settings
func (h *SettingHandler) Update(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	setting, err := h.settingRepo.GetOrCreate(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Settings not found")
		return
	}

	if req.SiteTitle != nil {
		setting.SiteTitle = *req.SiteTitle
	}
	if req.AdminEmail != nil {
		setting.AdminEmail = *req.AdminEmail
	}
	if req.NotificationsEnabled != nil {
		setting.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.Language != nil {
		setting.Language = *req.Language
	}

	if err := h.settingRepo.Update(c.Request.Context(), setting); err != nil {
		respondServiceError(c, err, "Settings not found")
		return
	}

	respondOK(c, http.StatusOK, setting)
}
