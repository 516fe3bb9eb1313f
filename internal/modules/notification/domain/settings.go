package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// CurrentSettingsVersion is the settings schema version this build writes.
const CurrentSettingsVersion = 3

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// UserNotificationSettings is the versioned per-user preference record.
// There is exactly one per user; it is never deleted, only reset to
// defaults.
type UserNotificationSettings struct {
	UID     uuid.UUID `json:"uid" db:"uid"`
	Version int       `json:"version" db:"version"`

	Enabled      bool `json:"enabled" db:"enabled"`
	SoundEnabled bool `json:"sound_enabled" db:"sound_enabled"`
	BadgeEnabled bool `json:"badge_enabled" db:"badge_enabled"`

	SifEnabled    bool `json:"sif_enabled" db:"sif_enabled"`
	SocialEnabled bool `json:"social_enabled" db:"social_enabled"`
	SystemEnabled bool `json:"system_enabled" db:"system_enabled"`

	QuietHoursEnabled bool   `json:"quiet_hours_enabled" db:"quiet_hours_enabled"`
	QuietHoursStart   string `json:"quiet_hours_start" db:"quiet_hours_start"`
	QuietHoursEnd     string `json:"quiet_hours_end" db:"quiet_hours_end"`

	LastUpdated time.Time `json:"last_updated" db:"last_updated"`

	// Extra preserves fields written by newer clients that this build does
	// not understand. Migration passes them through untouched.
	Extra map[string]string `json:"extra,omitempty"`
}

// DefaultSettings returns the safe defaults used for new users and as the
// fallback when a stored record is invalid.
func DefaultSettings(uid uuid.UUID) UserNotificationSettings {
	return UserNotificationSettings{
		UID:               uid,
		Version:           CurrentSettingsVersion,
		Enabled:           true,
		SoundEnabled:      true,
		BadgeEnabled:      true,
		SifEnabled:        true,
		SocialEnabled:     true,
		SystemEnabled:     true,
		QuietHoursEnabled: false,
		QuietHoursStart:   "22:00",
		QuietHoursEnd:     "08:00",
		LastUpdated:       time.Now().UTC(),
	}
}

// Validate checks the record against the schema rules. A record that fails
// validation is treated as absent and replaced with defaults.
func (s UserNotificationSettings) Validate() error {
	var fields []string
	if s.UID == uuid.Nil {
		fields = append(fields, "uid")
	}
	if s.Version < 1 || s.Version > CurrentSettingsVersion {
		fields = append(fields, "version")
	}
	if !clockPattern.MatchString(s.QuietHoursStart) {
		fields = append(fields, "quiet_hours_start")
	}
	if !clockPattern.MatchString(s.QuietHoursEnd) {
		fields = append(fields, "quiet_hours_end")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CategoryEnabled reports whether the per-category toggle allows the given
// category. Template and achievement notifications have no dedicated toggle
// and are governed by the master switch only.
func (s UserNotificationSettings) CategoryEnabled(c Category) bool {
	switch c {
	case CategorySif:
		return s.SifEnabled
	case CategorySocial:
		return s.SocialEnabled
	case CategorySystem:
		return s.SystemEnabled
	default:
		return true
	}
}

// InQuietHours reports whether t falls inside the configured quiet window
// [start, end). A window whose start is after its end spans midnight.
func (s UserNotificationSettings) InQuietHours(t time.Time) bool {
	if !s.QuietHoursEnabled {
		return false
	}
	start, okStart := minutesOfDay(s.QuietHoursStart)
	end, okEnd := minutesOfDay(s.QuietHoursEnd)
	if !okStart || !okEnd || start == end {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// Wraps past midnight, e.g. 22:00 -> 08:00.
	return minute >= start || minute < end
}

func minutesOfDay(clock string) (int, bool) {
	if !clockPattern.MatchString(clock) {
		return 0, false
	}
	h := int(clock[0]-'0')*10 + int(clock[1]-'0')
	m := int(clock[3]-'0')*10 + int(clock[4]-'0')
	return h*60 + m, true
}
