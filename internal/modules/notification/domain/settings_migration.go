package domain

import (
	"fmt"
	"time"
)

// migrationSteps upgrade a settings record one schema version at a time.
// Each step fills the fields its version introduced with their defaults and
// never deletes fields it does not know about.
var migrationSteps = map[int]func(*UserNotificationSettings) error{
	// v1 -> v2: quiet hours were introduced in v2.
	1: func(s *UserNotificationSettings) error {
		s.QuietHoursEnabled = false
		s.QuietHoursStart = "22:00"
		s.QuietHoursEnd = "08:00"
		return nil
	},
	// v2 -> v3: badge toggle and per-category toggles were introduced in v3.
	2: func(s *UserNotificationSettings) error {
		s.BadgeEnabled = true
		s.SifEnabled = true
		s.SocialEnabled = true
		s.SystemEnabled = true
		return nil
	},
}

// MigrateSettings upgrades a record to CurrentSettingsVersion, applying one
// step per intervening version and stamping the new version and
// LastUpdated.
//
// An already-current record is returned unchanged together with
// ErrNoMigrationNeeded. Any step failure returns a *MigrationError and the
// input is never partially migrated: callers keep the prior record and fall
// back to defaults.
func MigrateSettings(s UserNotificationSettings, now time.Time) (UserNotificationSettings, error) {
	if s.Version == CurrentSettingsVersion {
		return s, ErrNoMigrationNeeded
	}
	if s.Version < 1 || s.Version > CurrentSettingsVersion {
		return s, &MigrationError{
			FromVersion: s.Version,
			Reason:      fmt.Sprintf("unknown schema version %d", s.Version),
		}
	}

	migrated := s
	if s.Extra != nil {
		migrated.Extra = make(map[string]string, len(s.Extra))
		for k, v := range s.Extra {
			migrated.Extra[k] = v
		}
	}

	for v := s.Version; v < CurrentSettingsVersion; v++ {
		step, ok := migrationSteps[v]
		if !ok {
			return s, &MigrationError{FromVersion: v, Reason: "no migration step registered"}
		}
		if err := step(&migrated); err != nil {
			return s, &MigrationError{FromVersion: v, Reason: err.Error()}
		}
		migrated.Version = v + 1
	}
	migrated.LastUpdated = now.UTC()
	return migrated, nil
}
