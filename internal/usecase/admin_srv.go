package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"movietix/internal/data/entity"
	"movietix/internal/data/repository"

	"go.uber.org/zap"
)

// AdminService owns the single admin settings record. Updates are
// validated as a whole and rejected without partial apply. Settings
// changes only affect holds and seat maps created afterwards.
type AdminService interface {
	Load(ctx context.Context) error
	GetSettings() entity.AdminSettings
	SetSettings(ctx context.Context, settings entity.AdminSettings) error
}

type adminService struct {
	repo repository.SettingsRepository
	log  *zap.Logger

	mu       sync.RWMutex
	settings entity.AdminSettings
}

func NewAdminService(repo repository.SettingsRepository, log *zap.Logger) AdminService {
	return &adminService{
		repo:     repo,
		log:      log.With(zap.String("service", "admin")),
		settings: entity.DefaultAdminSettings(),
	}
}

// Load pulls the persisted settings record, falling back to defaults
// when none exists yet.
func (s *adminService) Load(ctx context.Context) error {
	persisted, err := s.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("load admin settings: %w", err)
	}
	if persisted == nil {
		s.log.Info("No persisted settings, using defaults")
		return nil
	}

	s.mu.Lock()
	s.settings = *persisted
	s.mu.Unlock()

	return nil
}

func (s *adminService) GetSettings() entity.AdminSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.settings
	settings.Thresholds = append([]int(nil), s.settings.Thresholds...)
	return settings
}

func (s *adminService) SetSettings(ctx context.Context, settings entity.AdminSettings) error {
	fields := make(map[string]string)

	validateRange(fields, "rows", settings.Layout.Rows, 5, 20)
	validateRange(fields, "seats_per_row", settings.Layout.SeatsPerRow, 5, 20)
	validatePriceRange(fields, "standard", settings.Pricing.Standard, 5, 30)
	validatePriceRange(fields, "premium", settings.Pricing.Premium, 10, 40)
	validatePriceRange(fields, "vip", settings.Pricing.VIP, 15, 50)

	if len(settings.Thresholds) == 0 {
		fields["thresholds"] = "at least one threshold is required"
	}
	settings.Thresholds = append([]int(nil), settings.Thresholds...)
	sort.Ints(settings.Thresholds)
	for i, threshold := range settings.Thresholds {
		if threshold < 25 || threshold > 95 {
			fields["thresholds"] = fmt.Sprintf("threshold %d outside 25-95", threshold)
			break
		}
		if i > 0 && threshold == settings.Thresholds[i-1] {
			fields["thresholds"] = fmt.Sprintf("duplicate threshold %d", threshold)
			break
		}
	}

	if len(fields) > 0 {
		return &InvalidSettingsError{Fields: fields}
	}

	settings.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, &settings); err != nil {
		return fmt.Errorf("save admin settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.log.Info("Admin settings updated",
		zap.Int("rows", settings.Layout.Rows),
		zap.Int("seats_per_row", settings.Layout.SeatsPerRow),
		zap.Float64("standard", settings.Pricing.Standard),
		zap.Float64("premium", settings.Pricing.Premium),
		zap.Float64("vip", settings.Pricing.VIP),
		zap.Ints("thresholds", settings.Thresholds),
	)

	return nil
}

func validateRange(fields map[string]string, name string, value, min, max int) {
	if value < min || value > max {
		fields[name] = fmt.Sprintf("must be between %d and %d", min, max)
	}
}

func validatePriceRange(fields map[string]string, name string, value float64, min, max float64) {
	if value < min || value > max {
		fields[name] = fmt.Sprintf("must be between %.0f and %.0f", min, max)
	}
}
