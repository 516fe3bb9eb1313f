package notification

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/saransh1220/sifline/internal/modules/notification/application"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"github.com/saransh1220/sifline/internal/modules/notification/infrastructure/messaging"
	"github.com/saransh1220/sifline/internal/modules/notification/infrastructure/persistence/postgres"
	"github.com/saransh1220/sifline/internal/modules/notification/infrastructure/push"
	"github.com/saransh1220/sifline/internal/modules/notification/infrastructure/websocket"
	notification_http "github.com/saransh1220/sifline/internal/modules/notification/interfaces/http"
	"go.uber.org/zap"
)

type Module struct {
	ingest   *application.IngestService
	feed     *application.FeedService
	actions  *application.ActionProcessor
	settings *application.SettingsService
	store    *application.Store
	hub      *websocket.Hub

	handler         *notification_http.NotificationHandler
	settingsHandler *notification_http.SettingsHandler
}

func NewModule(db *sqlx.DB, rdb *redis.Client, snapshots domain.SettingsSnapshotStore, logger *zap.Logger) *Module {
	notificationRepo := postgres.NewPgNotificationRepository(db)
	settingsRepo := postgres.NewPgSettingsRepository(db)
	tokens := push.NewRedisTokenStore(rdb)
	sender := messaging.NewRedisReplySender(rdb)

	hub := websocket.NewHub(logger)
	go hub.Run()

	store := application.NewStore()
	settings := application.NewSettingsService(settingsRepo, snapshots, logger)
	ingest := application.NewIngestService(store, settings, notificationRepo, hub, logger)
	feed := application.NewFeedService(store, notificationRepo, logger)
	actions := application.NewActionProcessor(store, notificationRepo, sender, application.NewRouteResolver(), logger)

	handler := notification_http.NewNotificationHandler(ingest, feed, actions, store, tokens, hub)
	settingsHandler := notification_http.NewSettingsHandler(settings)

	return &Module{
		ingest:          ingest,
		feed:            feed,
		actions:         actions,
		settings:        settings,
		store:           store,
		hub:             hub,
		handler:         handler,
		settingsHandler: settingsHandler,
	}
}

func (m *Module) HTTPHandler() *notification_http.NotificationHandler {
	return m.handler
}

func (m *Module) SettingsHTTPHandler() *notification_http.SettingsHandler {
	return m.settingsHandler
}

func (m *Module) Ingest() *application.IngestService {
	return m.ingest
}

func (m *Module) Store() *application.Store {
	return m.store
}

// Close stops the hub and the feed watcher.
func (m *Module) Close() {
	m.feed.Close()
	m.hub.Stop()
}
