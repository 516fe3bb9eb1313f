package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saransh1220/sifline/internal/gateway/middleware"
	notification_http "github.com/saransh1220/sifline/internal/modules/notification/interfaces/http"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	AuthMiddleware      *middleware.AuthMiddleWare
	NotificationHandler *notification_http.NotificationHandler
	SettingsHandler     *notification_http.SettingsHandler
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health Check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("/metrics", promhttp.Handler())

	auth := config.AuthMiddleware
	n := config.NotificationHandler
	s := config.SettingsHandler

	// Notification feed
	mux.Handle("GET /notifications", auth.RequireAuth(http.HandlerFunc(n.List)))
	mux.Handle("GET /notifications/unread-count", auth.RequireAuth(http.HandlerFunc(n.UnreadCount)))
	mux.Handle("POST /notifications/refresh", auth.RequireAuth(http.HandlerFunc(n.Refresh)))
	mux.Handle("POST /notifications/load-more", auth.RequireAuth(http.HandlerFunc(n.LoadMore)))

	// Ingestion from trusted internal services
	mux.Handle("POST /notifications/ingest", auth.RequireAuth(http.HandlerFunc(n.Ingest)))

	// Actions
	mux.Handle("POST /notifications/actions", auth.RequireAuth(http.HandlerFunc(n.DoBatch)))
	mux.Handle("POST /notifications/{id}/actions", auth.RequireAuth(http.HandlerFunc(n.DoAction)))
	mux.Handle("GET /notifications/{id}/link", auth.RequireAuth(http.HandlerFunc(n.ResolveLink)))

	// Device push token
	mux.Handle("PUT /notifications/push-token", auth.RequireAuth(http.HandlerFunc(n.SavePushToken)))

	// Live delivery
	mux.Handle("GET /ws", auth.RequireAuth(http.HandlerFunc(n.Subscribe)))

	// Settings
	mux.Handle("GET /notifications/settings", auth.RequireAuth(http.HandlerFunc(s.Get)))
	mux.Handle("PUT /notifications/settings", auth.RequireAuth(http.HandlerFunc(s.Update)))
	mux.Handle("POST /notifications/settings/reset", auth.RequireAuth(http.HandlerFunc(s.Reset)))
	mux.Handle("POST /notifications/settings/restore", auth.RequireAuth(http.HandlerFunc(s.Restore)))

	return mux
}
