package repository

import (
	"context"
	"fmt"

	"movietix/internal/data/entity"
	"movietix/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeatStateRepository persists the seat map snapshot per showtime. The
// in-memory inventory remains authoritative; these rows exist so seat
// state survives a restart and can be rehydrated on open.
type SeatStateRepository interface {
	ReplaceForShowtime(ctx context.Context, showtimeID uuid.UUID, seats []entity.Seat) error
	UpdateStatuses(ctx context.Context, showtimeID uuid.UUID, seats []entity.Seat) error
	FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]entity.Seat, error)
	DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) error
}

type seatStateRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatStateRepository(db database.PgxIface, log *zap.Logger) SeatStateRepository {
	return &seatStateRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_state")),
	}
}

func (r *seatStateRepository) ReplaceForShowtime(ctx context.Context, showtimeID uuid.UUID, seats []entity.Seat) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seat state replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM seat_states WHERE showtime_id = $1`, showtimeID); err != nil {
		r.log.Error("Failed to clear seat states",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return fmt.Errorf("clear seat states for showtime %s: %w", showtimeID.String(), err)
	}

	query := `
		INSERT INTO seat_states (showtime_id, seat_id, seat_row, seat_column, tier, state, hold_id, booking_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, seat := range seats {
		_, err := tx.Exec(ctx, query,
			showtimeID,
			seat.ID,
			seat.Row,
			seat.Number,
			seat.Tier,
			seat.Status.State,
			seat.Status.HoldID,
			seat.Status.BookingID,
			seat.Status.ExpiresAt,
		)
		if err != nil {
			r.log.Error("Failed to insert seat state",
				zap.Error(err),
				zap.String("showtime_id", showtimeID.String()),
				zap.String("seat_id", seat.ID),
			)
			return fmt.Errorf("insert seat state %s: %w", seat.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *seatStateRepository) UpdateStatuses(ctx context.Context, showtimeID uuid.UUID, seats []entity.Seat) error {
	query := `
		UPDATE seat_states
		SET state = $3, hold_id = $4, booking_id = $5, expires_at = $6
		WHERE showtime_id = $1 AND seat_id = $2
	`

	for _, seat := range seats {
		_, err := r.db.Exec(ctx, query,
			showtimeID,
			seat.ID,
			seat.Status.State,
			seat.Status.HoldID,
			seat.Status.BookingID,
			seat.Status.ExpiresAt,
		)
		if err != nil {
			r.log.Error("Failed to update seat state",
				zap.Error(err),
				zap.String("showtime_id", showtimeID.String()),
				zap.String("seat_id", seat.ID),
			)
			return fmt.Errorf("update seat state %s: %w", seat.ID, err)
		}
	}

	return nil
}

func (r *seatStateRepository) FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]entity.Seat, error) {
	query := `
		SELECT seat_id, seat_row, seat_column, tier, state, hold_id, booking_id, expires_at
		FROM seat_states
		WHERE showtime_id = $1
		ORDER BY seat_row, seat_column
	`

	rows, err := r.db.Query(ctx, query, showtimeID)
	if err != nil {
		r.log.Error("Failed to find seat states",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("find seat states for showtime %s: %w", showtimeID.String(), err)
	}
	defer rows.Close()

	var seats []entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.Row,
			&seat.Number,
			&seat.Tier,
			&seat.Status.State,
			&seat.Status.HoldID,
			&seat.Status.BookingID,
			&seat.Status.ExpiresAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat state row", zap.Error(err))
			return nil, fmt.Errorf("scan seat state row: %w", err)
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

func (r *seatStateRepository) DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	query := `DELETE FROM seat_states WHERE showtime_id = $1`

	if _, err := r.db.Exec(ctx, query, showtimeID); err != nil {
		r.log.Error("Failed to delete seat states",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return fmt.Errorf("delete seat states for showtime %s: %w", showtimeID.String(), err)
	}

	return nil
}
