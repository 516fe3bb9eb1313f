package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/gateway/middleware"
	"github.com/saransh1220/sifline/internal/modules/notification/application"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"github.com/saransh1220/sifline/internal/modules/notification/infrastructure/websocket"
	"github.com/saransh1220/sifline/internal/shared/utils"
)

type NotificationHandler struct {
	ingest  *application.IngestService
	feed    *application.FeedService
	actions *application.ActionProcessor
	store   *application.Store
	tokens  domain.PushTokenStore
	hub     *websocket.Hub
}

func NewNotificationHandler(
	ingest *application.IngestService,
	feed *application.FeedService,
	actions *application.ActionProcessor,
	store *application.Store,
	tokens domain.PushTokenStore,
	hub *websocket.Hub,
) *NotificationHandler {
	return &NotificationHandler{
		ingest:  ingest,
		feed:    feed,
		actions: actions,
		store:   store,
		tokens:  tokens,
		hub:     hub,
	}
}

func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	websocket.ServeWs(h.hub, w, r, userID)
}

// List switches the feed to the requested filter and search term and
// returns the grouped view.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	filter, err := domain.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}
	h.feed.SetQuery(filter, r.URL.Query().Get("q"))

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":         h.feed.Groups(),
		"unread_count": h.store.UnreadCount(),
	})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"count": h.store.UnreadCount()})
}

// Refresh reloads the newest page from persistence.
func (h *NotificationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.feed.LoadInitial(r.Context(), userID); err != nil {
		h.writeLoadError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": h.feed.Groups()})
}

// LoadMore fetches the next page for the active query.
func (h *NotificationHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.feed.LoadMore(r.Context(), userID); err != nil {
		h.writeLoadError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": h.feed.Groups()})
}

func (h *NotificationHandler) writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, application.ErrSuperseded) {
		utils.WriteError(w, http.StatusConflict, "load superseded by a newer query", nil)
		return
	}
	utils.WriteError(w, http.StatusInternalServerError, "failed to load notifications", err)
}

// Ingest accepts an inbound notification event from a trusted service.
func (h *NotificationHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var raw application.RawNotification
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	id, err := h.ingest.Ingest(r.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIngest):
			utils.WriteError(w, http.StatusBadRequest, "invalid notification", err)
		case errors.Is(err, domain.ErrDuplicateID):
			utils.WriteError(w, http.StatusConflict, "duplicate notification id", nil)
		default:
			utils.WriteError(w, http.StatusInternalServerError, "failed to ingest notification", err)
		}
		return
	}
	if id == uuid.Nil {
		// Gated out by the recipient's settings; acknowledged, not stored.
		utils.WriteJSON(w, http.StatusAccepted, map[string]bool{"dropped": true})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

type actionRequest struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
}

// DoAction applies one action to one notification.
func (h *NotificationHandler) DoAction(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid notification id", nil)
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.actions.Do(r.Context(), id, application.ActionKind(req.Action), req.Arg); err != nil {
		h.writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type batchRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
	Arg    string   `json:"arg,omitempty"`
}

// DoBatch applies one action to a selection. Partial failure is a normal
// outcome, reported per id with status 200.
func (h *NotificationHandler) DoBatch(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, s := range req.IDs {
		id, err := uuid.Parse(s)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid notification id in batch", nil)
			return
		}
		ids = append(ids, id)
	}

	result := h.actions.DoBatch(r.Context(), ids, application.ActionKind(req.Action), req.Arg)
	utils.WriteJSON(w, http.StatusOK, result)
}

// ResolveLink returns the navigation target a tap on the notification
// should open.
func (h *NotificationHandler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	n, err := h.store.Get(id)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "notification not found", nil)
		return
	}
	target, err := h.actions.Resolve(&n)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to resolve link", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, target)
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

// SavePushToken records the device's current push token.
func (h *NotificationHandler) SavePushToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req pushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		utils.WriteError(w, http.StatusBadRequest, "push token is required", nil)
		return
	}

	if err := h.tokens.Save(r.Context(), userID, req.Token); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to save push token", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "notification not found", nil)
	case errors.Is(err, domain.ErrEmptyReply):
		utils.WriteError(w, http.StatusBadRequest, "reply text is empty", nil)
	case errors.Is(err, domain.ErrUnknownAction):
		utils.WriteError(w, http.StatusBadRequest, "unknown action", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		utils.WriteError(w, http.StatusConflict, "action not allowed in current state", err)
	case errors.Is(err, domain.ErrSendFailed):
		utils.WriteError(w, http.StatusBadGateway, "reply could not be sent", err)
	default:
		utils.WriteError(w, http.StatusInternalServerError, "action failed", err)
	}
}
