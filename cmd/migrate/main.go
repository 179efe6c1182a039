package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"cv-polisher/internal/shared/config"
	"cv-polisher/internal/shared/storage/db"
	"cv-polisher/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Configure(cfg.LogLevel, cfg.LogFormat)
	defer telemetry.Sync()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		telemetry.Sync()
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		telemetry.Sync()
		os.Exit(1)
	}
	names, _ := db.MigrationNames()
	telemetry.Info("migrate.done", map[string]any{"migrations": names})
}
