package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the coarse grouping of a notification kind, independent of
// lifecycle state.
type Category string

const (
	CategorySif         Category = "sif"
	CategorySocial      Category = "social"
	CategorySystem      Category = "system"
	CategoryTemplate    Category = "template"
	CategoryAchievement Category = "achievement"
)

// Kind is the specific notification kind within a category.
type Kind string

const (
	KindSifReceived     Kind = "sif_received"
	KindSifDelivered    Kind = "sif_delivered"
	KindSifReminder     Kind = "sif_reminder"
	KindFriendRequest   Kind = "friend_request"
	KindFriendAccepted  Kind = "friend_accepted"
	KindMessageReceived Kind = "message_received"
	KindSystemUpdate    Kind = "system_update"
	KindTemplateShared  Kind = "template_shared"
	KindAchievement     Kind = "achievement"
)

type kindInfo struct {
	category    Category
	displayName string
	icon        string
}

var kinds = map[Kind]kindInfo{
	KindSifReceived:     {CategorySif, "New SIF", "envelope"},
	KindSifDelivered:    {CategorySif, "SIF Delivered", "paperplane"},
	KindSifReminder:     {CategorySif, "SIF Reminder", "clock"},
	KindFriendRequest:   {CategorySocial, "Friend Request", "person.badge.plus"},
	KindFriendAccepted:  {CategorySocial, "Friend Accepted", "person.2"},
	KindMessageReceived: {CategorySocial, "New Message", "bubble.left"},
	KindSystemUpdate:    {CategorySystem, "System Update", "gear"},
	KindTemplateShared:  {CategoryTemplate, "Template Shared", "doc.on.doc"},
	KindAchievement:     {CategoryAchievement, "Achievement", "trophy"},
}

// IsValid reports whether k is a known notification kind.
func (k Kind) IsValid() bool {
	_, ok := kinds[k]
	return ok
}

// Category returns the category projection of the kind.
func (k Kind) Category() Category {
	return kinds[k].category
}

// DisplayName returns the human readable name for the kind.
func (k Kind) DisplayName() string {
	return kinds[k].displayName
}

// Icon returns the icon reference for the kind.
func (k Kind) Icon() string {
	return kinds[k].icon
}

// Priority is the delivery priority of a notification. Critical
// notifications bypass quiet hours.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityLow:      "low",
	PriorityNormal:   "normal",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "normal"
}

// ParsePriority maps a priority name to its value. Unknown names map to
// PriorityNormal.
func ParsePriority(s string) Priority {
	for p, name := range priorityNames {
		if name == s {
			return p
		}
	}
	return PriorityNormal
}

// ActionStyle controls how an action is rendered by the client.
type ActionStyle string

const (
	ActionStylePrimary     ActionStyle = "primary"
	ActionStyleDestructive ActionStyle = "destructive"
	ActionStyleDefault     ActionStyle = "default"
	ActionStyleCancel      ActionStyle = "cancel"
)

// NotificationAction describes a capability offered on a notification, not
// an outcome. The list is immutable after creation.
type NotificationAction struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Icon  string      `json:"icon,omitempty"`
	Style ActionStyle `json:"style"`
}

// Payload carries the structured data some notification kinds require.
type Payload struct {
	SifID      string            `json:"sif_id,omitempty"`
	SenderID   string            `json:"sender_id,omitempty"`
	TemplateID string            `json:"template_id,omitempty"`
	ChatID     string            `json:"chat_id,omitempty"`
	DeepLink   string            `json:"deep_link,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Notification is the core domain entity. Its state is owned exclusively by
// the Store for the entity's whole life; other components receive copies.
type Notification struct {
	ID          uuid.UUID            `json:"id" db:"id"`
	RecipientID uuid.UUID            `json:"recipient_id" db:"recipient_id"`
	Kind        Kind                 `json:"kind" db:"kind"`
	Title       string               `json:"title" db:"title"`
	Body        string               `json:"body" db:"body"`
	Priority    Priority             `json:"priority" db:"priority"`
	State       State                `json:"state" db:"state"`
	Payload     *Payload             `json:"payload,omitempty"`
	Actions     []NotificationAction `json:"actions,omitempty"`
	Suppressed  bool                 `json:"suppressed" db:"suppressed"`
	FailReason  string               `json:"fail_reason,omitempty" db:"fail_reason"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
	ScheduledAt *time.Time           `json:"scheduled_at,omitempty" db:"scheduled_at"`
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.State == StateRead
}

// IsScheduled reports whether the notification has a delivery time that is
// still in the future relative to now.
func (n *Notification) IsScheduled(now time.Time) bool {
	return n.ScheduledAt != nil && n.ScheduledAt.After(now)
}

// CountsAsUnread reports whether the notification belongs in unread badges:
// any state before read, excluding archived.
func (n *Notification) CountsAsUnread() bool {
	switch n.State {
	case StateRead, StateArchived:
		return false
	default:
		return true
	}
}

// ActionByID returns the declared action with the given id, if any.
func (n *Notification) ActionByID(id string) (NotificationAction, bool) {
	for _, a := range n.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return NotificationAction{}, false
}

// Clone returns a deep copy so callers can hand out notifications without
// sharing mutable payload maps or action slices.
func (n *Notification) Clone() Notification {
	out := *n
	if n.Payload != nil {
		p := *n.Payload
		if n.Payload.Metadata != nil {
			p.Metadata = make(map[string]string, len(n.Payload.Metadata))
			for k, v := range n.Payload.Metadata {
				p.Metadata[k] = v
			}
		}
		out.Payload = &p
	}
	if n.Actions != nil {
		out.Actions = append([]NotificationAction(nil), n.Actions...)
	}
	if n.ScheduledAt != nil {
		t := *n.ScheduledAt
		out.ScheduledAt = &t
	}
	return out
}
