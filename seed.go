package main

import (
	"context"
	"time"

	"pizza-storefront/logger"
	"pizza-storefront/services"

	"go.uber.org/zap"
)

// runSeed asks the backend to load its demo menu and reports what it now
// serves.
func runSeed(backend services.PizzaBackend) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	menu := services.NewMenuService(backend, false, logger.Log)
	if err := menu.Seed(ctx); err != nil {
		return err
	}
	logger.Log.Info("Menu seeded", zap.Int("items", len(menu.Menu())))
	return nil
}
