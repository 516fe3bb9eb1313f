package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
)

type PgSettingsRepository struct {
	db *sqlx.DB
}

func NewPgSettingsRepository(db *sqlx.DB) *PgSettingsRepository {
	return &PgSettingsRepository{db: db}
}

type settingsRow struct {
	UID               uuid.UUID `db:"uid"`
	Version           int       `db:"version"`
	Enabled           bool      `db:"enabled"`
	SoundEnabled      bool      `db:"sound_enabled"`
	BadgeEnabled      bool      `db:"badge_enabled"`
	SifEnabled        bool      `db:"sif_enabled"`
	SocialEnabled     bool      `db:"social_enabled"`
	SystemEnabled     bool      `db:"system_enabled"`
	QuietHoursEnabled bool      `db:"quiet_hours_enabled"`
	QuietHoursStart   string    `db:"quiet_hours_start"`
	QuietHoursEnd     string    `db:"quiet_hours_end"`
	LastUpdated       time.Time `db:"last_updated"`
	Extra             []byte    `db:"extra"`
}

func (r *PgSettingsRepository) Load(ctx context.Context, uid uuid.UUID) (*domain.UserNotificationSettings, error) {
	query := `
		SELECT uid, version, enabled, sound_enabled, badge_enabled, sif_enabled,
			social_enabled, system_enabled, quiet_hours_enabled,
			quiet_hours_start, quiet_hours_end, last_updated, extra
		FROM notification_settings
		WHERE uid = $1
	`
	var row settingsRow
	if err := r.db.GetContext(ctx, &row, query, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	s := domain.UserNotificationSettings{
		UID:               row.UID,
		Version:           row.Version,
		Enabled:           row.Enabled,
		SoundEnabled:      row.SoundEnabled,
		BadgeEnabled:      row.BadgeEnabled,
		SifEnabled:        row.SifEnabled,
		SocialEnabled:     row.SocialEnabled,
		SystemEnabled:     row.SystemEnabled,
		QuietHoursEnabled: row.QuietHoursEnabled,
		QuietHoursStart:   row.QuietHoursStart,
		QuietHoursEnd:     row.QuietHoursEnd,
		LastUpdated:       row.LastUpdated,
	}
	if len(row.Extra) > 0 {
		if err := json.Unmarshal(row.Extra, &s.Extra); err != nil {
			return nil, fmt.Errorf("unmarshal settings extra: %w", err)
		}
	}
	return &s, nil
}

func (r *PgSettingsRepository) Save(ctx context.Context, s domain.UserNotificationSettings) error {
	row := settingsRow{
		UID:               s.UID,
		Version:           s.Version,
		Enabled:           s.Enabled,
		SoundEnabled:      s.SoundEnabled,
		BadgeEnabled:      s.BadgeEnabled,
		SifEnabled:        s.SifEnabled,
		SocialEnabled:     s.SocialEnabled,
		SystemEnabled:     s.SystemEnabled,
		QuietHoursEnabled: s.QuietHoursEnabled,
		QuietHoursStart:   s.QuietHoursStart,
		QuietHoursEnd:     s.QuietHoursEnd,
		LastUpdated:       s.LastUpdated,
	}
	if len(s.Extra) > 0 {
		b, err := json.Marshal(s.Extra)
		if err != nil {
			return fmt.Errorf("marshal settings extra: %w", err)
		}
		row.Extra = b
	}

	query := `
		INSERT INTO notification_settings (uid, version, enabled, sound_enabled, badge_enabled,
			sif_enabled, social_enabled, system_enabled, quiet_hours_enabled,
			quiet_hours_start, quiet_hours_end, last_updated, extra)
		VALUES (:uid, :version, :enabled, :sound_enabled, :badge_enabled,
			:sif_enabled, :social_enabled, :system_enabled, :quiet_hours_enabled,
			:quiet_hours_start, :quiet_hours_end, :last_updated, :extra)
		ON CONFLICT (uid) DO UPDATE SET
			version = EXCLUDED.version,
			enabled = EXCLUDED.enabled,
			sound_enabled = EXCLUDED.sound_enabled,
			badge_enabled = EXCLUDED.badge_enabled,
			sif_enabled = EXCLUDED.sif_enabled,
			social_enabled = EXCLUDED.social_enabled,
			system_enabled = EXCLUDED.system_enabled,
			quiet_hours_enabled = EXCLUDED.quiet_hours_enabled,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			last_updated = EXCLUDED.last_updated,
			extra = EXCLUDED.extra
	`
	_, err := r.db.NamedExecContext(ctx, query, row)
	return err
}
