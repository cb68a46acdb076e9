package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"movietix/internal/data/entity"
	"movietix/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShowtimeOccupancy pairs a showtime with its current booked count.
type ShowtimeOccupancy struct {
	Showtime *entity.Showtime
	Booked   int
	Total    int
}

// ShowtimeService manages the sale lifecycle of showtimes. The seat
// layout is snapshotted from admin settings at open time; later layout
// changes never mutate an open seat map.
type ShowtimeService interface {
	Open(ctx context.Context, movieTitle, theater string, startsAt time.Time) (*entity.Showtime, error)
	Retire(ctx context.Context, showtimeID uuid.UUID) error
	Get(ctx context.Context, showtimeID uuid.UUID) (*entity.Showtime, error)
	List(ctx context.Context) ([]ShowtimeOccupancy, error)
	SeedDemoBookings(ctx context.Context, showtimeID uuid.UUID, fraction float64, rng *rand.Rand) (int, error)
}

type showtimeService struct {
	repo      repository.ShowtimeRepository
	inventory InventoryService
	admin     AdminService
	log       *zap.Logger
}

func NewShowtimeService(repo repository.ShowtimeRepository, inventory InventoryService, admin AdminService, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo:      repo,
		inventory: inventory,
		admin:     admin,
		log:       log.With(zap.String("service", "showtime")),
	}
}

func (s *showtimeService) Open(ctx context.Context, movieTitle, theater string, startsAt time.Time) (*entity.Showtime, error) {
	layout := s.admin.GetSettings().Layout

	now := time.Now()
	showtime := &entity.Showtime{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieTitle:  movieTitle,
		Theater:     theater,
		StartsAt:    startsAt,
		Rows:        layout.Rows,
		SeatsPerRow: layout.SeatsPerRow,
	}

	if err := s.repo.Create(ctx, showtime); err != nil {
		return nil, fmt.Errorf("create showtime: %w", err)
	}

	if err := s.inventory.OpenShowtime(ctx, showtime); err != nil {
		return nil, fmt.Errorf("open seat map for showtime %s: %w", showtime.ID.String(), err)
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.String("movie_title", movieTitle),
		zap.String("theater", theater),
		zap.Time("starts_at", startsAt),
	)

	return showtime, nil
}

func (s *showtimeService) Retire(ctx context.Context, showtimeID uuid.UUID) error {
	if err := s.repo.SetRetired(ctx, showtimeID); err != nil {
		return ErrShowtimeNotFound
	}

	if err := s.inventory.RetireShowtime(ctx, showtimeID); err != nil {
		s.log.Warn("Seat map already gone for retired showtime",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
	}

	return nil
}

func (s *showtimeService) Get(ctx context.Context, showtimeID uuid.UUID) (*entity.Showtime, error) {
	showtime, err := s.repo.FindByID(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if showtime == nil {
		return nil, ErrShowtimeNotFound
	}
	return showtime, nil
}

func (s *showtimeService) List(ctx context.Context) ([]ShowtimeOccupancy, error) {
	showtimes, err := s.repo.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list showtimes: %w", err)
	}

	out := make([]ShowtimeOccupancy, 0, len(showtimes))
	for _, showtime := range showtimes {
		booked, total, err := s.inventory.Occupancy(showtime.ID)
		if err != nil {
			// Seat map not open in this process; fall back to layout.
			total = showtime.TotalSeats()
		}
		out = append(out, ShowtimeOccupancy{Showtime: showtime, Booked: booked, Total: total})
	}

	return out, nil
}

func (s *showtimeService) SeedDemoBookings(ctx context.Context, showtimeID uuid.UUID, fraction float64, rng *rand.Rand) (int, error) {
	return s.inventory.PreBookRandom(ctx, showtimeID, fraction, rng)
}
