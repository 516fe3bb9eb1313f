package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"go.uber.org/zap"
)

// SettingsService owns the authoritative settings record for each user:
// loading, validation, schema migration, updates and the snapshot safety
// net. Settings are mutated only here; the gate just reads them.
type SettingsService struct {
	repo      domain.SettingsRepository
	snapshots domain.SettingsSnapshotStore
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.RWMutex
	cache map[uuid.UUID]domain.UserNotificationSettings
}

func NewSettingsService(repo domain.SettingsRepository, snapshots domain.SettingsSnapshotStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:      repo,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
		cache:     make(map[uuid.UUID]domain.UserNotificationSettings),
	}
}

// Current returns the authoritative settings for a user. A missing or
// invalid stored record yields safe defaults; an out-of-date record is
// snapshotted and migrated before use. A failed migration falls back to
// defaults without touching the stored record.
func (s *SettingsService) Current(ctx context.Context, uid uuid.UUID) (domain.UserNotificationSettings, error) {
	s.mu.RLock()
	if cached, ok := s.cache[uid]; ok {
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	stored, err := s.repo.Load(ctx, uid)
	if err != nil {
		return domain.UserNotificationSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if stored == nil {
		return s.adopt(ctx, domain.DefaultSettings(uid), true), nil
	}

	if err := stored.Validate(); err != nil {
		// An invalid record is treated as absent and replaced.
		s.logger.Warn("stored settings invalid, using defaults",
			zap.String("uid", uid.String()), zap.Error(err))
		return s.adopt(ctx, domain.DefaultSettings(uid), true), nil
	}

	if stored.Version == domain.CurrentSettingsVersion {
		return s.adopt(ctx, *stored, false), nil
	}

	// Snapshot before the destructive migration; losing the snapshot is
	// logged but does not block the upgrade.
	if err := s.snapshots.Save(ctx, *stored, s.now()); err != nil {
		s.logger.Warn("settings snapshot failed",
			zap.String("uid", uid.String()), zap.Error(err))
	}

	migrated, err := domain.MigrateSettings(*stored, s.now())
	if err != nil && !errors.Is(err, domain.ErrNoMigrationNeeded) {
		// The stored record stays untouched; this session runs on defaults.
		s.logger.Error("settings migration failed, falling back to defaults",
			zap.String("uid", uid.String()), zap.Error(err))
		return s.adopt(ctx, domain.DefaultSettings(uid), false), nil
	}
	return s.adopt(ctx, migrated, true), nil
}

// Update validates and persists a settings change. A validation failure
// blocks the write entirely; the prior valid settings remain authoritative.
func (s *SettingsService) Update(ctx context.Context, settings domain.UserNotificationSettings) error {
	settings.Version = domain.CurrentSettingsVersion
	settings.LastUpdated = s.now().UTC()
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.remember(settings)
	return nil
}

// Reset replaces a user's settings with defaults. Settings records are
// never deleted.
func (s *SettingsService) Reset(ctx context.Context, uid uuid.UUID) (domain.UserNotificationSettings, error) {
	defaults := domain.DefaultSettings(uid)
	defaults.LastUpdated = s.now().UTC()
	if err := s.repo.Save(ctx, defaults); err != nil {
		return domain.UserNotificationSettings{}, fmt.Errorf("save settings: %w", err)
	}
	s.remember(defaults)
	return defaults, nil
}

// Restore brings back the most recent snapshot for a user, migrating it if
// it predates the current schema.
func (s *SettingsService) Restore(ctx context.Context, uid uuid.UUID) (domain.UserNotificationSettings, error) {
	snap, err := s.snapshots.Latest(ctx, uid)
	if err != nil {
		return domain.UserNotificationSettings{}, err
	}
	restored := *snap
	if restored.Version != domain.CurrentSettingsVersion {
		migrated, err := domain.MigrateSettings(restored, s.now())
		if err != nil && !errors.Is(err, domain.ErrNoMigrationNeeded) {
			return domain.UserNotificationSettings{}, err
		}
		restored = migrated
	}
	if err := restored.Validate(); err != nil {
		return domain.UserNotificationSettings{}, err
	}
	if err := s.repo.Save(ctx, restored); err != nil {
		return domain.UserNotificationSettings{}, fmt.Errorf("save settings: %w", err)
	}
	s.remember(restored)
	return restored, nil
}

// adopt caches the record and optionally persists it (new defaults or a
// freshly migrated record).
func (s *SettingsService) adopt(ctx context.Context, settings domain.UserNotificationSettings, persist bool) domain.UserNotificationSettings {
	if persist {
		if err := s.repo.Save(ctx, settings); err != nil {
			s.logger.Warn("settings persist failed",
				zap.String("uid", settings.UID.String()), zap.Error(err))
		}
	}
	s.remember(settings)
	return settings
}

func (s *SettingsService) remember(settings domain.UserNotificationSettings) {
	s.mu.Lock()
	s.cache[settings.UID] = settings
	s.mu.Unlock()
}
