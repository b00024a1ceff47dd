package main

import (
	"context"

	"newsbrew/internal/config"
	"newsbrew/internal/db"
	"newsbrew/internal/services"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// One-shot ingestion run. Scheduling lives outside the process, cron or
// similar.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, reading env vars from system")
	}

	cfg := config.Load()
	db.Init(cfg.DatabaseURL)

	ingestor := services.NewIngestor(cfg.NewsAPIBaseURL)
	count, err := ingestor.Run(context.Background())
	if err != nil {
		logrus.Fatalf("ingestion aborted: %v", err)
	}
	logrus.Infof("ingestion finished, %d new posts", count)
}
