package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/saransh1220/sifline/internal/gateway"
	"github.com/saransh1220/sifline/internal/gateway/middleware"
	"github.com/saransh1220/sifline/internal/modules/notification"
	"github.com/saransh1220/sifline/internal/modules/notification/infrastructure/snapshot"
	"github.com/saransh1220/sifline/internal/shared/infrastructure/config"
	"github.com/saransh1220/sifline/internal/shared/infrastructure/database"
	"github.com/saransh1220/sifline/internal/shared/infrastructure/logger"
	"github.com/saransh1220/sifline/pkg/migration"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.DBName, cfg.Database.SSLMode)
	if err := migration.AutoMigrate(dbURL, "migrations", slog.Default()); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	snapshots, err := snapshot.NewS3SnapshotStore(context.Background(), snapshot.S3Config{
		BucketName: cfg.Snapshot.S3Bucket,
		Region:     cfg.Snapshot.S3Region,
		Endpoint:   cfg.Snapshot.S3Endpoint,
		AccessKey:  cfg.Snapshot.S3AccessKey,
		SecretKey:  cfg.Snapshot.S3SecretKey,
		UseSSL:     cfg.Snapshot.S3UseSSL,
	})
	if err != nil {
		log.Fatal("failed to build snapshot store", zap.Error(err))
	}

	notificationModule := notification.NewModule(db, rdb, snapshots, log)
	defer notificationModule.Close()

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	mux := gateway.SetupRoutes(gateway.RouterConfig{
		AuthMiddleware:      authMiddleware,
		NotificationHandler: notificationModule.HTTPHandler(),
		SettingsHandler:     notificationModule.SettingsHTTPHandler(),
	})

	handler := middleware.CORSMiddleware(mux, cfg.Server.AllowedOrigins)
	handler = middleware.PrometheusMiddleware(handler)
	handler = middleware.RequestLogging(log)(handler)

	server := gateway.NewServer(cfg.Server.Port, handler, log)
	if err := server.Start(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
