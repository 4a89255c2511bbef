package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pizza-storefront/clients"
	"pizza-storefront/models"

	"go.uber.org/zap"
)

// MenuService loads and serves the pizza menu.
type MenuService interface {
	// Load runs the startup bootstrap. Failures are logged and leave the
	// menu empty; Loading reports false once it returns.
	Load(ctx context.Context)
	Reload(ctx context.Context) error
	Seed(ctx context.Context) error
	Menu() []models.MenuItem
	Loading() bool
	FindItem(id string) (models.MenuItem, bool)
}

type menuServiceImpl struct {
	backend  PizzaBackend
	autoSeed bool
	logger   *zap.Logger

	mu      sync.RWMutex
	items   []models.MenuItem
	loading bool
}

// NewMenuService creates a MenuService. When autoSeed is set, an empty menu at
// startup triggers one seed request followed by one refetch.
func NewMenuService(backend PizzaBackend, autoSeed bool, logger *zap.Logger) MenuService {
	return &menuServiceImpl{
		backend:  backend,
		autoSeed: autoSeed,
		logger:   logger,
		loading:  true,
	}
}

func (s *menuServiceImpl) Load(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	items, err := s.bootstrap(ctx)
	if err != nil {
		s.logger.Error("Menu load failed", zap.Error(err))
		s.replace(nil)
		return
	}
	s.replace(items)
	s.logger.Info("Menu loaded", zap.Int("items", len(items)))
}

func (s *menuServiceImpl) bootstrap(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.backend.ListPizzas(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 || !s.autoSeed {
		return items, nil
	}

	s.logger.Info("Menu is empty, seeding demo data")
	if err := s.backend.SeedPizzas(ctx); err != nil {
		var upErr *clients.UpstreamError
		if !errors.As(err, &upErr) {
			return nil, err
		}
		// The backend answered; refetch whatever it has.
		s.logger.Warn("Seed request rejected", zap.Int("status", upErr.StatusCode))
	}

	return s.backend.ListPizzas(ctx)
}

func (s *menuServiceImpl) Reload(ctx context.Context) error {
	items, err := s.backend.ListPizzas(ctx)
	if err != nil {
		return fmt.Errorf("reload menu: %w", err)
	}
	s.replace(items)
	s.logger.Info("Menu reloaded", zap.Int("items", len(items)))
	return nil
}

func (s *menuServiceImpl) Seed(ctx context.Context) error {
	if err := s.backend.SeedPizzas(ctx); err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	return s.Reload(ctx)
}

func (s *menuServiceImpl) replace(items []models.MenuItem) {
	next := make([]models.MenuItem, len(items))
	copy(next, items)

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}

func (s *menuServiceImpl) Menu() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *menuServiceImpl) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *menuServiceImpl) FindItem(id string) (models.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}
