package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"go.uber.org/zap"
)

// SettingsProvider hands the gate the current settings for a user.
type SettingsProvider interface {
	Current(ctx context.Context, uid uuid.UUID) (domain.UserNotificationSettings, error)
}

// Broadcaster pushes a rendered notification to a user's live connections.
type Broadcaster interface {
	SendToUser(uid uuid.UUID, message []byte)
}

// RawNotification is what the delivery collaborator hands us: an untrusted
// inbound event that has to be validated into a domain.Notification.
type RawNotification struct {
	ID          string                      `json:"id,omitempty"`
	RecipientID string                      `json:"recipient_id"`
	Kind        string                      `json:"kind"`
	Title       string                      `json:"title"`
	Body        string                      `json:"body"`
	Priority    string                      `json:"priority,omitempty"`
	Payload     *domain.Payload             `json:"payload,omitempty"`
	Actions     []domain.NotificationAction `json:"actions,omitempty"`
	ScheduledAt *time.Time                  `json:"scheduled_at,omitempty"`
}

// IngestService validates inbound notifications, gates them against the
// recipient's settings and lands the survivors in the store, the repository
// and the live delivery channel.
type IngestService struct {
	store    *Store
	settings SettingsProvider
	repo     domain.NotificationRepository
	hub      Broadcaster
	logger   *zap.Logger
	now      func() time.Time
}

func NewIngestService(store *Store, settings SettingsProvider, repo domain.NotificationRepository, hub Broadcaster, logger *zap.Logger) *IngestService {
	return &IngestService{
		store:    store,
		settings: settings,
		repo:     repo,
		hub:      hub,
		logger:   logger,
		now:      time.Now,
	}
}

// Ingest validates and gates one inbound notification. It returns the id
// of the stored notification, or uuid.Nil with a nil error when the gate
// dropped it, or an error wrapping domain.ErrIngest when the raw input is
// invalid.
func (s *IngestService) Ingest(ctx context.Context, raw RawNotification) (uuid.UUID, error) {
	now := s.now()

	n, err := s.validate(raw, now)
	if err != nil {
		return uuid.Nil, err
	}

	settings, err := s.settings.Current(ctx, n.RecipientID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load settings: %w", err)
	}

	decision := Gate(settings, n, now)
	ingestedTotal.WithLabelValues(string(n.Kind.Category()), string(decision.Verdict)).Inc()
	if decision.Verdict == VerdictDrop {
		s.logger.Debug("notification dropped by gate",
			zap.String("kind", string(n.Kind)),
			zap.String("reason", decision.Reason))
		return uuid.Nil, nil
	}
	n.Suppressed = decision.Verdict == VerdictSuppress

	// Scheduled notifications rest in pending until their delivery time;
	// everything else is sent and delivered immediately.
	if !n.IsScheduled(now) {
		if err := n.MarkSent(); err != nil {
			return uuid.Nil, err
		}
		if err := n.MarkDelivered(now); err != nil {
			return uuid.Nil, err
		}
	}

	if err := s.store.Add(*n); err != nil {
		return uuid.Nil, err
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		// The store already owns the notification for this session; the
		// write-through failure is logged, not fatal.
		s.logger.Warn("notification persist failed",
			zap.String("id", n.ID.String()), zap.Error(err))
	}

	if decision.Verdict == VerdictDeliver && n.State == domain.StateDelivered {
		s.push(n, decision)
	}
	return n.ID, nil
}

func (s *IngestService) validate(raw RawNotification, now time.Time) (*domain.Notification, error) {
	recipient, err := uuid.Parse(raw.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad recipient id", domain.ErrIngest)
	}
	kind := domain.Kind(raw.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrIngest, raw.Kind)
	}
	if raw.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrIngest)
	}
	if raw.ScheduledAt != nil && raw.ScheduledAt.Before(now) {
		return nil, fmt.Errorf("%w: scheduled time is in the past", domain.ErrIngest)
	}

	id := uuid.New()
	if raw.ID != "" {
		id, err = uuid.Parse(raw.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad notification id", domain.ErrIngest)
		}
	}

	return &domain.Notification{
		ID:          id,
		RecipientID: recipient,
		Kind:        kind,
		Title:       raw.Title,
		Body:        raw.Body,
		Priority:    domain.ParsePriority(raw.Priority),
		State:       domain.StatePending,
		Payload:     raw.Payload,
		Actions:     raw.Actions,
		CreatedAt:   now,
		ScheduledAt: raw.ScheduledAt,
	}, nil
}

type pushEnvelope struct {
	Notification domain.Notification `json:"notification"`
	Sound        bool                `json:"sound"`
	Badge        bool                `json:"badge"`
}

func (s *IngestService) push(n *domain.Notification, d Decision) {
	msg, err := json.Marshal(pushEnvelope{Notification: *n, Sound: d.Sound, Badge: d.Badge})
	if err != nil {
		s.logger.Error("notification encode failed", zap.Error(err))
		return
	}
	s.hub.SendToUser(n.RecipientID, msg)
}
