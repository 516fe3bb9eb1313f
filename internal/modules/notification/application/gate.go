package application

import (
	"time"

	"github.com/saransh1220/sifline/internal/modules/notification/domain"
)

// Verdict is the gating outcome for one inbound notification.
type Verdict string

const (
	// VerdictDrop means the notification must not be stored at all.
	VerdictDrop Verdict = "drop"
	// VerdictDeliver means full delivery with sound/badge per settings.
	VerdictDeliver Verdict = "deliver"
	// VerdictSuppress means the notification is stored so it appears in
	// lists later, but its presentation (sound, badge) is suppressed.
	VerdictSuppress Verdict = "suppress"
)

// Decision is the result of gating one notification against the user's
// settings at a point in time.
type Decision struct {
	Verdict Verdict
	Sound   bool
	Badge   bool
	Reason  string
}

// Gate decides what happens to an inbound notification before it reaches
// the store. It is pure with respect to the clock and settings passed in:
// identical inputs always produce the identical decision.
//
// Policy, in order: master switch off drops; disabled category drops;
// inside quiet hours critical priority passes through unchanged while
// everything else is stored with presentation suppressed; otherwise the
// notification is delivered with sound/badge per settings.
func Gate(s domain.UserNotificationSettings, n *domain.Notification, now time.Time) Decision {
	if !s.Enabled {
		return Decision{Verdict: VerdictDrop, Reason: "notifications disabled"}
	}
	if !s.CategoryEnabled(n.Kind.Category()) {
		return Decision{Verdict: VerdictDrop, Reason: "category disabled"}
	}
	if s.InQuietHours(now) && n.Priority != domain.PriorityCritical {
		return Decision{Verdict: VerdictSuppress, Reason: "quiet hours"}
	}
	return Decision{Verdict: VerdictDeliver, Sound: s.SoundEnabled, Badge: s.BadgeEnabled}
}
