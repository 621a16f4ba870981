package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

type settingsService interface {
	Get() domain.Settings
	Update(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)
}

// SettingsHandler serves the notification settings.
type SettingsHandler struct {
	svc settingsService
	log *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(svc settingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: logger.With("handler", "settings")}
}

type updateSettingsRequest struct {
	NotificationsEnabled *bool `json:"notificationsEnabled"`
	SoundEnabled         *bool `json:"soundEnabled"`
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsResponse(h.svc.Get()))
}

// Update handles PUT /api/settings. Omitted fields are left unchanged.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.svc.Update(r.Context(), domain.SettingsPatch{
		NotificationsEnabled: req.NotificationsEnabled,
		SoundEnabled:         req.SoundEnabled,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(s))
}
