package main

import (
	"context"
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"api_reports/internal/config"
	"api_reports/internal/database"
	"api_reports/internal/logging"
	"api_reports/internal/seed"
)

func main() {
	cfg := config.MustLoad()
	logger := logging.Must(cfg.App.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.App.IsProduction() {
		return seed.ErrProduction
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	sum, err := seed.New(db, gofakeit.New(0), os.Stdout, logger).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("categorías=%d marcas=%d proveedores=%d garantías=%d\n",
		sum.Categories, sum.Brands, sum.Providers, sum.Warranties)
	return nil
}
