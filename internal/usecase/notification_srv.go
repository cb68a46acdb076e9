package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"movietix/internal/data/entity"
	"movietix/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService evaluates occupancy against the configured
// thresholds after each commit. A per-showtime watermark records the
// highest threshold already notified, so each crossing alerts exactly
// once: the watermark is monotonic and does not re-arm if occupancy
// drops and rises again.
type NotificationService interface {
	EvaluateOccupancy(ctx context.Context, showtime *entity.Showtime, bookedSeats int, thresholds []int) ([]*entity.Notification, error)
	List(ctx context.Context, showtimeID *uuid.UUID) ([]*entity.Notification, error)
	Acknowledge(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	repo repository.NotificationRepository
	log  *zap.Logger

	mu         sync.Mutex
	watermarks map[uuid.UUID]int
}

func NewNotificationService(repo repository.NotificationRepository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:       repo,
		log:        log.With(zap.String("service", "notification")),
		watermarks: make(map[uuid.UUID]int),
	}
}

func (s *notificationService) EvaluateOccupancy(ctx context.Context, showtime *entity.Showtime, bookedSeats int, thresholds []int) ([]*entity.Notification, error) {
	total := showtime.TotalSeats()
	if total == 0 {
		return nil, nil
	}

	occupancyPct := bookedSeats * 100 / total

	s.mu.Lock()
	defer s.mu.Unlock()

	watermark, ok := s.watermarks[showtime.ID]
	if !ok {
		persisted, err := s.repo.GetWatermark(ctx, showtime.ID)
		if err != nil {
			s.log.Warn("Failed to load threshold watermark, assuming none",
				zap.Error(err),
				zap.String("showtime_id", showtime.ID.String()),
			)
		} else {
			watermark = persisted
		}
		s.watermarks[showtime.ID] = watermark
	}

	var emitted []*entity.Notification
	for _, threshold := range thresholds {
		if threshold <= watermark || threshold > occupancyPct {
			continue
		}

		notification := &entity.Notification{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			ShowtimeID: showtime.ID,
			Threshold:  threshold,
			Message: fmt.Sprintf("%s has reached %d%% booking capacity for '%s' at %s.",
				showtime.Theater, threshold, showtime.MovieTitle, showtime.StartsAt.Format("15:04")),
		}

		if err := s.repo.Create(ctx, notification); err != nil {
			return emitted, fmt.Errorf("create notification for threshold %d: %w", threshold, err)
		}

		watermark = threshold
		emitted = append(emitted, notification)

		s.log.Info("Capacity threshold crossed",
			zap.String("showtime_id", showtime.ID.String()),
			zap.Int("threshold", threshold),
			zap.Int("occupancy_pct", occupancyPct),
		)
	}

	if len(emitted) > 0 {
		s.watermarks[showtime.ID] = watermark
		if err := s.repo.SaveWatermark(ctx, showtime.ID, watermark); err != nil {
			s.log.Warn("Failed to persist threshold watermark",
				zap.Error(err),
				zap.String("showtime_id", showtime.ID.String()),
			)
		}
	}

	return emitted, nil
}

func (s *notificationService) List(ctx context.Context, showtimeID *uuid.UUID) ([]*entity.Notification, error) {
	if showtimeID != nil {
		return s.repo.FindByShowtime(ctx, *showtimeID)
	}
	return s.repo.FindAll(ctx)
}

func (s *notificationService) Acknowledge(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return ErrNotificationNotFound
	}
	return nil
}
