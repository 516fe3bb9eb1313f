package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/gateway/middleware"
	"github.com/saransh1220/sifline/internal/modules/notification/application"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"github.com/saransh1220/sifline/internal/shared/utils"
)

type SettingsHandler struct {
	settings *application.SettingsService
}

func NewSettingsHandler(settings *application.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	s, err := h.settings.Current(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

// Update replaces the user's settings. A validation failure leaves the
// stored settings untouched.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var s domain.UserNotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	s.UID = userID

	if err := h.settings.Update(r.Context(), s); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			utils.WriteError(w, http.StatusBadRequest, "invalid settings", vErr)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to save settings", err)
		return
	}

	saved, err := h.settings.Current(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, saved)
}

func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	s, err := h.settings.Reset(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to reset settings", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

// Restore reinstates the most recent settings snapshot.
func (h *SettingsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	s, err := h.settings.Restore(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSnapshot) {
			utils.WriteError(w, http.StatusNotFound, "no settings snapshot available", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to restore settings", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}
