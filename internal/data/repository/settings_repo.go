package repository

import (
	"context"
	"fmt"

	"movietix/internal/data/entity"
	"movietix/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SettingsRepository stores the single admin settings record.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.AdminSettings, error)
	Save(ctx context.Context, settings *entity.AdminSettings) error
}

type settingsRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSettingsRepository(db database.PgxIface, log *zap.Logger) SettingsRepository {
	return &settingsRepository{
		db:  db,
		log: log.With(zap.String("repository", "settings")),
	}
}

func (r *settingsRepository) Get(ctx context.Context) (*entity.AdminSettings, error) {
	query := `
		SELECT seat_rows, seats_per_row, price_standard, price_premium, price_vip, thresholds, updated_at
		FROM admin_settings
		WHERE id = 1
	`

	var settings entity.AdminSettings
	var thresholds []int32
	err := r.db.QueryRow(ctx, query).Scan(
		&settings.Layout.Rows,
		&settings.Layout.SeatsPerRow,
		&settings.Pricing.Standard,
		&settings.Pricing.Premium,
		&settings.Pricing.VIP,
		&thresholds,
		&settings.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get admin settings", zap.Error(err))
		return nil, fmt.Errorf("get admin settings: %w", err)
	}

	settings.Thresholds = make([]int, len(thresholds))
	for i, t := range thresholds {
		settings.Thresholds[i] = int(t)
	}

	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *entity.AdminSettings) error {
	query := `
		INSERT INTO admin_settings (id, seat_rows, seats_per_row, price_standard, price_premium, price_vip, thresholds, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			seat_rows = EXCLUDED.seat_rows,
			seats_per_row = EXCLUDED.seats_per_row,
			price_standard = EXCLUDED.price_standard,
			price_premium = EXCLUDED.price_premium,
			price_vip = EXCLUDED.price_vip,
			thresholds = EXCLUDED.thresholds,
			updated_at = EXCLUDED.updated_at
	`

	thresholds := make([]int32, len(settings.Thresholds))
	for i, t := range settings.Thresholds {
		thresholds[i] = int32(t)
	}

	_, err := r.db.Exec(ctx, query,
		settings.Layout.Rows,
		settings.Layout.SeatsPerRow,
		settings.Pricing.Standard,
		settings.Pricing.Premium,
		settings.Pricing.VIP,
		thresholds,
		settings.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to save admin settings", zap.Error(err))
		return fmt.Errorf("save admin settings: %w", err)
	}

	return nil
}
