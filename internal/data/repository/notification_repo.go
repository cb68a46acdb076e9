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

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindAll(ctx context.Context) ([]*entity.Notification, error)
	FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Watermark is the highest threshold already notified for a
	// showtime. It only ever moves up.
	GetWatermark(ctx context.Context, showtimeID uuid.UUID) (int, error)
	SaveWatermark(ctx context.Context, showtimeID uuid.UUID, threshold int) error
}

type notificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNotificationRepository(db database.PgxIface, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, showtime_id, threshold, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		notification.ID,
		notification.ShowtimeID,
		notification.Threshold,
		notification.Message,
		notification.Read,
		notification.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("showtime_id", notification.ShowtimeID.String()),
			zap.Int("threshold", notification.Threshold),
		)
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) FindAll(ctx context.Context) ([]*entity.Notification, error) {
	query := `
		SELECT id, showtime_id, threshold, message, is_read, created_at
		FROM notifications
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find notifications", zap.Error(err))
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *notificationRepository) FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Notification, error) {
	query := `
		SELECT id, showtime_id, threshold, message, is_read, created_at
		FROM notifications
		WHERE showtime_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, showtimeID)
	if err != nil {
		r.log.Error("Failed to find notifications by showtime",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("find notifications for showtime %s: %w", showtimeID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return fmt.Errorf("mark notification %s read: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %s not found", id.String())
	}

	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete notification",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return fmt.Errorf("delete notification %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %s not found", id.String())
	}

	return nil
}

func (r *notificationRepository) GetWatermark(ctx context.Context, showtimeID uuid.UUID) (int, error) {
	query := `SELECT last_threshold FROM threshold_watermarks WHERE showtime_id = $1`

	var threshold int
	err := r.db.QueryRow(ctx, query, showtimeID).Scan(&threshold)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to get threshold watermark",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return 0, fmt.Errorf("get watermark for showtime %s: %w", showtimeID.String(), err)
	}

	return threshold, nil
}

func (r *notificationRepository) SaveWatermark(ctx context.Context, showtimeID uuid.UUID, threshold int) error {
	query := `
		INSERT INTO threshold_watermarks (showtime_id, last_threshold)
		VALUES ($1, $2)
		ON CONFLICT (showtime_id) DO UPDATE SET last_threshold = EXCLUDED.last_threshold
	`

	_, err := r.db.Exec(ctx, query, showtimeID, threshold)
	if err != nil {
		r.log.Error("Failed to save threshold watermark",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
			zap.Int("threshold", threshold),
		)
		return fmt.Errorf("save watermark for showtime %s: %w", showtimeID.String(), err)
	}

	return nil
}

func (r *notificationRepository) scanRows(rows pgx.Rows) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	for rows.Next() {
		var notification entity.Notification
		err := rows.Scan(
			&notification.ID,
			&notification.ShowtimeID,
			&notification.Threshold,
			&notification.Message,
			&notification.Read,
			&notification.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan notification row", zap.Error(err))
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}
