package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationRepository is the persistence collaborator for notifications.
// It is fallible and latency-bearing; the only ordering guarantee is
// "newest page first".
type NotificationRepository interface {
	Insert(ctx context.Context, n *Notification) error
	UpdateState(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id uuid.UUID) error
	// LoadPage returns one page of a recipient's notifications, newest
	// first, together with the cursor for the next page. An empty cursor
	// starts from the newest notification; an empty returned cursor means
	// the end was reached.
	LoadPage(ctx context.Context, recipientID uuid.UUID, cursor string, limit int) ([]Notification, string, error)
}

// SettingsRepository is the persistence collaborator for user settings.
type SettingsRepository interface {
	Load(ctx context.Context, uid uuid.UUID) (*UserNotificationSettings, error)
	Save(ctx context.Context, s UserNotificationSettings) error
}

// SettingsSnapshotStore keeps point-in-time copies of a settings record,
// keyed by (uid, timestamp), as a safety net before destructive migration.
type SettingsSnapshotStore interface {
	Save(ctx context.Context, s UserNotificationSettings, at time.Time) error
	// Latest returns the most recent snapshot for a user, or ErrNoSnapshot.
	Latest(ctx context.Context, uid uuid.UUID) (*UserNotificationSettings, error)
}

// ReplySender is the messaging collaborator that delivers reply text to a
// chat. The core never retries automatically.
type ReplySender interface {
	Send(ctx context.Context, chatID, text string) error
}

// NavigationTarget is where a resolved deep link points. Rendering it is
// the client's concern.
type NavigationTarget struct {
	Route  string            `json:"route"`
	Params map[string]string `json:"params,omitempty"`
}

// DeepLinkResolver maps a notification to its navigation target.
type DeepLinkResolver interface {
	Resolve(n *Notification) (NavigationTarget, error)
}

// PushTokenStore is the permission/token collaborator. The core only reads
// the token; OS-level registration happens elsewhere.
type PushTokenStore interface {
	Save(ctx context.Context, uid uuid.UUID, token string) error
	Current(ctx context.Context, uid uuid.UUID) (string, error)
}
