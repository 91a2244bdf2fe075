package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turkish-learning-bot/internal/domain/review"
	"turkish-learning-bot/internal/domain/word"
)

func TestTracker_RecordActivity(t *testing.T) {
	t.Parallel()

	day := func(d int, hour int) time.Time {
		return time.Date(2025, 6, d, hour, 0, 0, 0, time.Local)
	}

	t.Run("first activity starts at one", func(t *testing.T) {
		t.Parallel()

		tr := NewTracker(Streak{})
		tr.RecordActivity(day(1, 10))

		s := tr.Snapshot()
		assert.Equal(t, 1, s.Current)
		assert.Equal(t, 1, s.Best)
		require.NotNil(t, s.LastActive)
	})

	t.Run("same day does not advance", func(t *testing.T) {
		t.Parallel()

		tr := NewTracker(Streak{})
		tr.RecordActivity(day(1, 10))
		tr.RecordActivity(day(1, 23))

		assert.Equal(t, 1, tr.Snapshot().Current)
	})

	t.Run("consecutive days advance", func(t *testing.T) {
		t.Parallel()

		tr := NewTracker(Streak{})
		tr.RecordActivity(day(1, 10))
		tr.RecordActivity(day(2, 10))
		tr.RecordActivity(day(3, 10))

		s := tr.Snapshot()
		assert.Equal(t, 3, s.Current)
		assert.Equal(t, 3, s.Best)
	})

	t.Run("gap resets to one", func(t *testing.T) {
		t.Parallel()

		tr := NewTracker(Streak{})
		tr.RecordActivity(day(1, 10))
		tr.RecordActivity(day(2, 10))
		tr.RecordActivity(day(5, 10))

		s := tr.Snapshot()
		assert.Equal(t, 1, s.Current)
		assert.Equal(t, 2, s.Best, "best never decreases")
	})

	t.Run("midnight boundary counts as a new day", func(t *testing.T) {
		t.Parallel()

		tr := NewTracker(Streak{})
		tr.RecordActivity(day(1, 23))
		tr.RecordActivity(day(2, 0))

		assert.Equal(t, 2, tr.Snapshot().Current, "calendar date comparison, not elapsed hours")
	})

	t.Run("seeded from loaded state", func(t *testing.T) {
		t.Parallel()

		last := day(1, 12)
		tr := NewTracker(Streak{Current: 7, Best: 12, LastActive: &last})
		tr.RecordActivity(day(2, 9))

		s := tr.Snapshot()
		assert.Equal(t, 8, s.Current)
		assert.Equal(t, 12, s.Best)
	})
}

func TestTracker_ActiveToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.Local)

	tr := NewTracker(Streak{})
	assert.False(t, tr.ActiveToday(now))

	tr.RecordActivity(now)
	assert.True(t, tr.ActiveToday(now.Add(2*time.Hour)))
	assert.False(t, tr.ActiveToday(now.AddDate(0, 0, 1)))
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 5)

	words := []*word.Word{
		{ID: "a", Favorite: true, Stats: word.Stats{Learned: true, NextReviewDate: future}},
		{ID: "b", Stats: word.Stats{DifficultyScore: 4, NextReviewDate: now}},
		{ID: "c", Stats: word.Stats{NextReviewDate: future}},
	}
	streak := Streak{Current: 3, Best: 5}

	stats := ComputeStats(words, review.NewScheduler(), streak, now)

	assert.Equal(t, 3, stats.TotalWords)
	assert.Equal(t, 1, stats.Learned)
	assert.Equal(t, 1, stats.Favorites)
	assert.Equal(t, 1, stats.Hard)
	assert.Equal(t, 1, stats.Due)
	assert.Equal(t, streak, stats.Streak)
}
