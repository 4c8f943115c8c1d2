package main

import (
	"flag"

	"todomon/internal/config"
	"todomon/internal/handlers"
	"todomon/internal/kv"
	"todomon/internal/logging"
	"todomon/internal/storage"
)

func main() {
	configPath := flag.String("config", "todomon.toml", "path to the TOML config file")
	flag.Parse()

	// Initialize logging first
	logging.InitLogger(logging.NewLogConfigFromEnv())

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Logger.Fatalf("Failed to load config: %v", err)
	}

	var blob kv.Blob
	switch cfg.Storage {
	case "memory":
		logging.Logger.Info("Using in-memory storage")
		blob = kv.NewMemory()
	default:
		db, err := kv.OpenDatabase(kv.DatabaseConfig{Driver: cfg.Storage, DSN: cfg.DSN})
		if err != nil {
			logging.Logger.Fatalf("Failed to connect to database: %v", err)
		}
		logging.Logger.Infof("Blob storage initialized (%s)", cfg.Storage)
		blob = db
	}

	store, err := storage.NewWithKey(blob, cfg.BlobKey)
	if err != nil {
		logging.Logger.Fatalf("Failed to load todo collection: %v", err)
	}

	router := handlers.NewRouter(store)

	logging.Logger.Infof("Starting server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logging.Logger.Fatalf("Failed to start server: %v", err)
	}
}
