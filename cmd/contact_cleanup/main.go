package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"playhouse/internal/config"
	"playhouse/internal/database"
	"playhouse/internal/logger"
	"playhouse/internal/modules/contact"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.ContactDSN(), log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := contact.Migrate(db); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	svc := contact.NewService(contact.NewRepository(db), nil, log)
	n, err := svc.Prune(context.Background(), cfg.ContactRetention)
	if err != nil {
		log.Fatal("cleanup contact_messages failed", zap.Error(err))
	}

	log.Info("contact cleanup completed",
		zap.Int64("deleted", n),
		zap.Duration("retention", cfg.ContactRetention),
	)
}
