package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/saransh1220/sifline/internal/modules/notification"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopSnapshots struct{}

func (noopSnapshots) Save(context.Context, domain.UserNotificationSettings, time.Time) error {
	return nil
}

func (noopSnapshots) Latest(context.Context, uuid.UUID) (*domain.UserNotificationSettings, error) {
	return nil, domain.ErrNoSnapshot
}

func TestNewModule(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := sqlx.NewDb(sqlDB, "sqlmock")
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer rdb.Close()

	m := notification.NewModule(db, rdb, noopSnapshots{}, zap.NewNop())
	defer m.Close()
	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPHandler())
	assert.NotNil(t, m.SettingsHTTPHandler())
	assert.NotNil(t, m.Ingest())
	assert.NotNil(t, m.Store())
}
