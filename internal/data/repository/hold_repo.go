package repository

import (
	"context"
	"fmt"

	"movietix/internal/data/entity"
	"movietix/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// HoldRepository mirrors the active holds table. Terminal holds keep
// their final state for audit; the sweep and rehydration only care
// about active rows.
type HoldRepository interface {
	Create(ctx context.Context, hold *entity.Hold) error
	UpdateState(ctx context.Context, id uuid.UUID, state entity.HoldState) error
	FindActiveByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Hold, error)
	DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) error
}

type holdRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHoldRepository(db database.PgxIface, log *zap.Logger) HoldRepository {
	return &holdRepository{
		db:  db,
		log: log.With(zap.String("repository", "hold")),
	}
}

func (r *holdRepository) Create(ctx context.Context, hold *entity.Hold) error {
	query := `
		INSERT INTO holds (id, showtime_id, seat_ids, holder_id, state, total_price, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		hold.ID,
		hold.ShowtimeID,
		hold.SeatIDs,
		hold.HolderID,
		hold.State,
		hold.TotalPrice,
		hold.CreatedAt,
		hold.ExpiresAt,
	)

	if err != nil {
		r.log.Error("Failed to create hold",
			zap.Error(err),
			zap.String("hold_id", hold.ID.String()),
			zap.String("showtime_id", hold.ShowtimeID.String()),
		)
		return fmt.Errorf("create hold %s: %w", hold.ID.String(), err)
	}

	return nil
}

func (r *holdRepository) UpdateState(ctx context.Context, id uuid.UUID, state entity.HoldState) error {
	query := `UPDATE holds SET state = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, state)
	if err != nil {
		r.log.Error("Failed to update hold state",
			zap.Error(err),
			zap.String("hold_id", id.String()),
			zap.String("state", string(state)),
		)
		return fmt.Errorf("update hold %s state to %s: %w", id.String(), string(state), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hold %s not found", id.String())
	}

	return nil
}

func (r *holdRepository) FindActiveByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Hold, error) {
	query := `
		SELECT id, showtime_id, seat_ids, holder_id, state, total_price, created_at, expires_at
		FROM holds
		WHERE showtime_id = $1 AND state = 'active'
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, showtimeID)
	if err != nil {
		r.log.Error("Failed to find active holds",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("find active holds for showtime %s: %w", showtimeID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *holdRepository) DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	query := `DELETE FROM holds WHERE showtime_id = $1`

	if _, err := r.db.Exec(ctx, query, showtimeID); err != nil {
		r.log.Error("Failed to delete holds",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return fmt.Errorf("delete holds for showtime %s: %w", showtimeID.String(), err)
	}

	return nil
}

func (r *holdRepository) scanRows(rows pgx.Rows) ([]*entity.Hold, error) {
	var holds []*entity.Hold
	for rows.Next() {
		var hold entity.Hold
		err := rows.Scan(
			&hold.ID,
			&hold.ShowtimeID,
			&hold.SeatIDs,
			&hold.HolderID,
			&hold.State,
			&hold.TotalPrice,
			&hold.CreatedAt,
			&hold.ExpiresAt,
		)
		if err != nil {
			r.log.Error("Failed to scan hold row", zap.Error(err))
			return nil, fmt.Errorf("scan hold row: %w", err)
		}
		holds = append(holds, &hold)
	}

	return holds, nil
}
