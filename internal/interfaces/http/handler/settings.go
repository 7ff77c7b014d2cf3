package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/invo/backend/internal/application/settings"
)

// SettingsHandler exposes the runtime business settings
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get returns the current settings
func (h *SettingsHandler) Get(c *gin.Context) {
	h.Success(c, h.settingsService.Snapshot())
}

// Update applies a partial settings update. Changes take effect on the next
// operation that reads them; no restart involved.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	updated, err := h.settingsService.Update(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, updated)
}
