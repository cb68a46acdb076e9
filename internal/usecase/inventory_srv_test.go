package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"movietix/internal/data/entity"
	"movietix/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestShowtime(rows, seatsPerRow int) *entity.Showtime {
	now := time.Now()
	return &entity.Showtime{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieTitle:  "Interstellar",
		Theater:     "Grand Hall",
		StartsAt:    now.Add(4 * time.Hour),
		Rows:        rows,
		SeatsPerRow: seatsPerRow,
	}
}

func newTestInventory(t *testing.T) (*inventoryService, *repository.Repository) {
	t.Helper()
	repo := newTestRepository()
	inv := NewInventoryService(repo, zap.NewNop()).(*inventoryService)
	return inv, repo
}

func openTestShowtime(t *testing.T, inv *inventoryService, rows, seatsPerRow int) *entity.Showtime {
	t.Helper()
	showtime := newTestShowtime(rows, seatsPerRow)
	require.NoError(t, inv.OpenShowtime(context.Background(), showtime))
	return showtime
}

func TestOpenShowtime_GeneratesTieredSeatMap(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 10, 10)

	seats, err := inv.GetSeatMap(context.Background(), showtime.ID)
	require.NoError(t, err)
	require.Len(t, seats, 100)

	assert.Equal(t, "A1", seats[0].ID)
	assert.Equal(t, entity.TierStandard, seats[0].Tier)
	assert.Equal(t, "D1", seats[30].ID)
	assert.Equal(t, entity.TierPremium, seats[30].Tier)
	assert.Equal(t, "H1", seats[70].ID)
	assert.Equal(t, entity.TierVIP, seats[70].Tier)

	for _, seat := range seats {
		assert.Equal(t, entity.SeatAvailable, seat.Status.State)
	}
}

func TestOpenShowtime_SecondOpenIsNoop(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)

	_, err := inv.PlaceHold(context.Background(), showtime.ID, []string{"A1"}, "sess-1", time.Minute, 11.5)
	require.NoError(t, err)

	require.NoError(t, inv.OpenShowtime(context.Background(), showtime))

	_, err = inv.PlaceHold(context.Background(), showtime.ID, []string{"A1"}, "sess-2", time.Minute, 11.5)
	assert.Error(t, err)
}

func TestPlaceHold_AllOrNothing(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 10, 10)
	ctx := context.Background()

	first, err := inv.PlaceHold(ctx, showtime.ID, []string{"A1", "A2"}, "sess-1", time.Minute, 21.5)
	require.NoError(t, err)
	assert.Equal(t, entity.HoldActive, first.State)

	_, err = inv.PlaceHold(ctx, showtime.ID, []string{"A2", "A3"}, "sess-2", time.Minute, 21.5)
	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"A2"}, unavailable.Conflicts)

	// A3 was not touched by the rejected hold.
	second, err := inv.PlaceHold(ctx, showtime.ID, []string{"A3"}, "sess-2", time.Minute, 11.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A3"}, second.SeatIDs)
}

func TestPlaceHold_UnknownSeatConflicts(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)

	_, err := inv.PlaceHold(context.Background(), showtime.ID, []string{"A1", "Z9"}, "sess-1", time.Minute, 11.5)
	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"Z9"}, unavailable.Conflicts)
}

func TestPlaceHold_DuplicateSeatIDsCollapsed(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)

	hold, err := inv.PlaceHold(context.Background(), showtime.ID, []string{"A1", "A1", "A2"}, "sess-1", time.Minute, 21.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, hold.SeatIDs)
}

func TestPlaceHold_ConcurrentOverlapSingleWinner(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 10, 10)
	ctx := context.Background()

	const buyers = 16
	var wg sync.WaitGroup
	results := make([]error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = inv.PlaceHold(ctx, showtime.ID, []string{"E5", "E6"}, "sess", time.Minute, 31.5)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		var unavailable *SeatUnavailableError
		assert.ErrorAs(t, err, &unavailable)
	}
	assert.Equal(t, 1, winners)
}

func TestCommitHold_Idempotent(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	hold, err := inv.PlaceHold(ctx, showtime.ID, []string{"B1", "B2"}, "sess-1", time.Minute, 21.5)
	require.NoError(t, err)

	bookingID := uuid.New()
	first, err := inv.CommitHold(ctx, hold.ID, bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.HoldCommitted, first.State)

	second, err := inv.CommitHold(ctx, hold.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.SeatIDs, second.SeatIDs)

	booked, _, err := inv.Occupancy(showtime.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, booked)
}

func TestReleaseHold_CommittedIsError(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	hold, err := inv.PlaceHold(ctx, showtime.ID, []string{"C1"}, "sess-1", time.Minute, 11.5)
	require.NoError(t, err)

	_, err = inv.CommitHold(ctx, hold.ID, uuid.New())
	require.NoError(t, err)

	err = inv.ReleaseHold(ctx, hold.ID)
	assert.ErrorIs(t, err, ErrAlreadyCommitted)

	booked, _, err := inv.Occupancy(showtime.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, booked)
}

func TestReleaseHold_RepeatedReleaseIsIdempotent(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	hold, err := inv.PlaceHold(ctx, showtime.ID, []string{"C1", "C2"}, "sess-1", time.Minute, 21.5)
	require.NoError(t, err)

	require.NoError(t, inv.ReleaseHold(ctx, hold.ID))
	require.NoError(t, inv.ReleaseHold(ctx, hold.ID))

	// Seats are free again.
	_, err = inv.PlaceHold(ctx, showtime.ID, []string{"C1", "C2"}, "sess-2", time.Minute, 21.5)
	assert.NoError(t, err)
}

func TestCommitHold_AfterTTLExpires(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	base := time.Now()
	inv.now = func() time.Time { return base }

	hold, err := inv.PlaceHold(ctx, showtime.ID, []string{"B4"}, "sess-1", 5*time.Minute, 11.5)
	require.NoError(t, err)

	inv.now = func() time.Time { return base.Add(6 * time.Minute) }

	_, err = inv.CommitHold(ctx, hold.ID, uuid.New())
	assert.ErrorIs(t, err, ErrHoldExpired)

	// The seat went back to available for the next buyer.
	next, err := inv.PlaceHold(ctx, showtime.ID, []string{"B4"}, "sess-2", 5*time.Minute, 11.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B4"}, next.SeatIDs)
}

func TestSweepExpired_ReleasesOverdueHoldsOnly(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	base := time.Now()
	inv.now = func() time.Time { return base }

	overdue, err := inv.PlaceHold(ctx, showtime.ID, []string{"A1", "A2"}, "sess-1", time.Minute, 21.5)
	require.NoError(t, err)
	fresh, err := inv.PlaceHold(ctx, showtime.ID, []string{"A3"}, "sess-2", time.Hour, 11.5)
	require.NoError(t, err)

	inv.now = func() time.Time { return base.Add(2 * time.Minute) }

	assert.Equal(t, 1, inv.SweepExpired(ctx))

	_, err = inv.CommitHold(ctx, overdue.ID, uuid.New())
	assert.ErrorIs(t, err, ErrHoldExpired)

	assert.Equal(t, 0, inv.SweepExpired(ctx))

	_, err = inv.CommitHold(ctx, fresh.ID, uuid.New())
	assert.NoError(t, err)
}

func TestGetSeatMap_ExpiresOverdueHoldsInPassing(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	base := time.Now()
	inv.now = func() time.Time { return base }

	_, err := inv.PlaceHold(ctx, showtime.ID, []string{"D1"}, "sess-1", time.Minute, 11.5)
	require.NoError(t, err)

	inv.now = func() time.Time { return base.Add(2 * time.Minute) }

	seats, err := inv.GetSeatMap(ctx, showtime.ID)
	require.NoError(t, err)
	for _, seat := range seats {
		if seat.ID == "D1" {
			assert.Equal(t, entity.SeatAvailable, seat.Status.State)
		}
	}
}

func TestRetireShowtime_RemovesStateAndHolds(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	hold, err := inv.PlaceHold(ctx, showtime.ID, []string{"A1"}, "sess-1", time.Minute, 11.5)
	require.NoError(t, err)

	require.NoError(t, inv.RetireShowtime(ctx, showtime.ID))

	_, err = inv.GetSeatMap(ctx, showtime.ID)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)

	err = inv.ReleaseHold(ctx, hold.ID)
	assert.ErrorIs(t, err, ErrHoldNotFound)

	err = inv.RetireShowtime(ctx, showtime.ID)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestRehydrate_RestoresSeatsAndActiveHolds(t *testing.T) {
	repo := newTestRepository()
	showtime := newTestShowtime(5, 5)
	require.NoError(t, repo.Showtime.Create(context.Background(), showtime))

	inv := NewInventoryService(repo, zap.NewNop()).(*inventoryService)
	require.NoError(t, inv.OpenShowtime(context.Background(), showtime))

	hold, err := inv.PlaceHold(context.Background(), showtime.ID, []string{"A1", "A2"}, "sess-1", time.Hour, 21.5)
	require.NoError(t, err)
	_, err = inv.CommitHold(context.Background(), hold.ID, uuid.New())
	require.NoError(t, err)

	held, err := inv.PlaceHold(context.Background(), showtime.ID, []string{"B1"}, "sess-2", time.Hour, 11.5)
	require.NoError(t, err)

	// Fresh service over the same persisted state, as after a restart.
	restarted := NewInventoryService(repo, zap.NewNop()).(*inventoryService)
	require.NoError(t, restarted.Rehydrate(context.Background()))

	booked, total, err := restarted.Occupancy(showtime.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, booked)
	assert.Equal(t, 25, total)

	// The active hold survived and still blocks its seat.
	_, err = restarted.PlaceHold(context.Background(), showtime.ID, []string{"B1"}, "sess-3", time.Hour, 11.5)
	var unavailable *SeatUnavailableError
	require.True(t, errors.As(err, &unavailable))

	// And it can still be released by the original token.
	assert.NoError(t, restarted.ReleaseHold(context.Background(), held.ID))
}

func TestPreBookRandom_DeterministicWithSeed(t *testing.T) {
	ctx := context.Background()

	run := func() []string {
		inv, _ := newTestInventory(t)
		showtime := openTestShowtime(t, inv, 10, 10)
		_, err := inv.PreBookRandom(ctx, showtime.ID, 0.2, rand.New(rand.NewSource(42)))
		require.NoError(t, err)

		seats, err := inv.GetSeatMap(ctx, showtime.ID)
		require.NoError(t, err)

		var booked []string
		for _, seat := range seats {
			if seat.Status.State == entity.SeatBooked {
				booked = append(booked, seat.ID)
			}
		}
		return booked
	}

	first := run()
	second := run()

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestSeatTiers_UnknownSeatRejected(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 10, 10)

	tiers, err := inv.SeatTiers(showtime.ID, []string{"A1", "D1", "H1"})
	require.NoError(t, err)
	assert.Equal(t, []entity.SeatTier{entity.TierStandard, entity.TierPremium, entity.TierVIP}, tiers)

	_, err = inv.SeatTiers(showtime.ID, []string{"A1", "Q99"})
	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"Q99"}, unavailable.Conflicts)
}

func TestSweepExpired_EvictsTerminalHolds(t *testing.T) {
	inv, _ := newTestInventory(t)
	showtime := openTestShowtime(t, inv, 5, 5)
	ctx := context.Background()

	released, err := inv.PlaceHold(ctx, showtime.ID, []string{"A1"}, "sess-1", time.Hour, 11.5)
	require.NoError(t, err)
	require.NoError(t, inv.ReleaseHold(ctx, released.ID))

	committed, err := inv.PlaceHold(ctx, showtime.ID, []string{"A2"}, "sess-2", time.Hour, 11.5)
	require.NoError(t, err)
	_, err = inv.CommitHold(ctx, committed.ID, uuid.New())
	require.NoError(t, err)

	active, err := inv.PlaceHold(ctx, showtime.ID, []string{"A3"}, "sess-3", time.Hour, 11.5)
	require.NoError(t, err)

	inv.SweepExpired(ctx)

	// Terminal holds are gone from both the per-showtime records and
	// the hold index; the active hold stays.
	err = inv.ReleaseHold(ctx, released.ID)
	assert.ErrorIs(t, err, ErrHoldNotFound)
	_, err = inv.CommitHold(ctx, committed.ID, uuid.New())
	assert.ErrorIs(t, err, ErrHoldNotFound)

	inv.hmu.Lock()
	indexed := len(inv.holdIndex)
	inv.hmu.Unlock()
	assert.Equal(t, 1, indexed)

	// Eviction never touches seat state: the booked seat stays booked.
	booked, total, err := inv.Occupancy(showtime.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, booked)
	assert.Equal(t, 25, total)

	_, err = inv.CommitHold(ctx, active.ID, uuid.New())
	assert.NoError(t, err)
}
