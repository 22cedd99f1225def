// Package storagetest holds behavior checks shared by every storage backend.
package storagetest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
)

// Storage exercises a storage backend. newStorage must return an empty store.
func Storage(t *testing.T, newStorage func(t *testing.T) storage.Storage) {
	t.Run("ListCompetitorsEmpty", func(t *testing.T) {
		s := newStorage(t)
		competitors, err := s.ListCompetitors(t.Context(), "T1")
		require.NoError(t, err)
		assert.Empty(t, competitors)
	})

	t.Run("CompetitorsKeepEnrollmentOrder", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		for _, c := range []model.Competitor{
			{ID: "c", DisplayName: "Cat", Affiliation: "North", GenderTag: "F"},
			{ID: "a", DisplayName: "Ann"},
			{ID: "b", DisplayName: "Bob"},
		} {
			require.NoError(t, s.SaveCompetitor(ctx, "T1", c))
		}

		competitors, err := s.ListCompetitors(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, competitors, 3)
		assert.Equal(t, model.Competitor{ID: "c", DisplayName: "Cat", Affiliation: "North", GenderTag: "F"}, competitors[0])
		assert.Equal(t, model.CompetitorID("a"), competitors[1].ID)
		assert.Equal(t, model.CompetitorID("b"), competitors[2].ID)
	})

	t.Run("SaveCompetitorUpdatesInPlace", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		require.NoError(t, s.SaveCompetitor(ctx, "T1", model.Competitor{ID: "a", DisplayName: "Ann"}))
		require.NoError(t, s.SaveCompetitor(ctx, "T1", model.Competitor{ID: "b", DisplayName: "Bob"}))
		require.NoError(t, s.SaveCompetitor(ctx, "T1", model.Competitor{ID: "a", DisplayName: "Annie"}))

		competitors, err := s.ListCompetitors(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, competitors, 2)
		assert.Equal(t, "Annie", competitors[0].DisplayName)
		assert.Equal(t, "Bob", competitors[1].DisplayName)
	})

	t.Run("CompetitorsAreScopedByTournament", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		require.NoError(t, s.SaveCompetitor(ctx, "T1", model.Competitor{ID: "a", DisplayName: "Ann"}))
		require.NoError(t, s.SaveCompetitor(ctx, "T2", model.Competitor{ID: "b", DisplayName: "Bob"}))

		competitors, err := s.ListCompetitors(ctx, "T2")
		require.NoError(t, err)
		require.Len(t, competitors, 1)
		assert.Equal(t, model.CompetitorID("b"), competitors[0].ID)
	})

	t.Run("DeleteCompetitor", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		require.NoError(t, s.SaveCompetitor(ctx, "T1", model.Competitor{ID: "a", DisplayName: "Ann"}))
		require.NoError(t, s.SaveCompetitor(ctx, "T1", model.Competitor{ID: "b", DisplayName: "Bob"}))

		require.NoError(t, s.DeleteCompetitor(ctx, "T1", "a"))

		competitors, err := s.ListCompetitors(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, competitors, 1)
		assert.Equal(t, model.CompetitorID("b"), competitors[0].ID)
	})

	t.Run("DeleteCompetitorNotFound", func(t *testing.T) {
		s := newStorage(t)
		err := s.DeleteCompetitor(t.Context(), "T1", "missing")
		assert.ErrorIs(t, err, model.ErrCompetitorNotFound)
	})

	t.Run("GetScheduleNotFound", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.GetSchedule(t.Context(), "T1")
		assert.ErrorIs(t, err, model.ErrScheduleNotFound)
	})

	t.Run("ReplaceAndGetSchedule", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		schedule := SampleSchedule("T1", 2)

		require.NoError(t, s.ReplaceSchedule(ctx, schedule))

		retrieved, err := s.GetSchedule(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, schedule.TournamentID, retrieved.TournamentID)
		assert.Equal(t, schedule.TotalRounds, retrieved.TotalRounds)
		assert.Equal(t, schedule.Rounds, retrieved.Rounds)
		assert.True(t, schedule.GeneratedAt.Equal(retrieved.GeneratedAt))
	})

	t.Run("ReplaceScheduleOverwrites", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		require.NoError(t, s.ReplaceSchedule(ctx, SampleSchedule("T1", 2)))
		require.NoError(t, s.ReplaceSchedule(ctx, SampleSchedule("T1", 3)))

		retrieved, err := s.GetSchedule(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, 3, retrieved.TotalRounds)
		assert.Len(t, retrieved.Rounds, 3)
	})

	t.Run("StoredScheduleIsIsolatedFromCaller", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		schedule := SampleSchedule("T1", 1)
		require.NoError(t, s.ReplaceSchedule(ctx, schedule))

		schedule.Rounds[0].Pairings[0].CompetitorA.Score = 99

		retrieved, err := s.GetSchedule(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, 1.0, retrieved.Rounds[0].Pairings[0].CompetitorA.Score)
	})

	t.Run("DeleteSchedule", func(t *testing.T) {
		s := newStorage(t)
		ctx := t.Context()
		require.NoError(t, s.ReplaceSchedule(ctx, SampleSchedule("T1", 1)))

		require.NoError(t, s.DeleteSchedule(ctx, "T1"))

		_, err := s.GetSchedule(ctx, "T1")
		assert.ErrorIs(t, err, model.ErrScheduleNotFound)
		// Deleting again is not an error
		assert.NoError(t, s.DeleteSchedule(ctx, "T1"))
	})
}

// Locker exercises a Locker implementation
func Locker(t *testing.T, locker storage.Locker) {
	t.Run("SerializesSameKey", func(t *testing.T) {
		var inside, maxInside atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(context.Background(), "same")
				if !assert.NoError(t, err) {
					return
				}
				n := inside.Add(1)
				for {
					m := maxInside.Load()
					if n <= m || maxInside.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				inside.Add(-1)
				unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), maxInside.Load())
	})

	t.Run("IndependentKeys", func(t *testing.T) {
		unlockA, err := locker.Lock(t.Context(), "a")
		require.NoError(t, err)
		defer unlockA()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		unlockB, err := locker.Lock(ctx, "b")
		require.NoError(t, err)
		unlockB()
	})

	t.Run("TimesOutWhenHeld", func(t *testing.T) {
		unlock, err := locker.Lock(t.Context(), "held")
		require.NoError(t, err)
		defer unlock()

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(ctx, "held")
		assert.ErrorIs(t, err, model.ErrLockTimeout)
	})

	t.Run("ReacquireAfterUnlock", func(t *testing.T) {
		unlock, err := locker.Lock(t.Context(), "again")
		require.NoError(t, err)
		unlock()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		unlock, err = locker.Lock(ctx, "again")
		require.NoError(t, err)
		unlock()
	})
}

// SampleSchedule builds a small schedule with one pairing and a bye per round
func SampleSchedule(tournamentID model.TournamentID, rounds int) *model.Schedule {
	schedule := &model.Schedule{
		TournamentID: tournamentID,
		TotalRounds:  rounds,
		Rounds:       make([]model.Round, 0, rounds),
		GeneratedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	for n := 1; n <= rounds; n++ {
		schedule.Rounds = append(schedule.Rounds, model.Round{
			Number: n,
			Pairings: []model.Pairing{{
				CompetitorA: model.CompetitorSnapshot{ID: "a", DisplayName: "Ann", Score: float64(n)},
				CompetitorB: model.CompetitorSnapshot{ID: "b", DisplayName: "Bob", Score: 0.5 * float64(n-1)},
				Outcome:     model.OutcomeAWins,
			}},
			Bye: &model.CompetitorSnapshot{ID: "c", DisplayName: "Cat", Score: float64(n)},
		})
	}
	return schedule
}
