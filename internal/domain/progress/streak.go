// Package progress maintains the day-granularity usage streak and the
// derived application statistics.
package progress

import (
	"time"

	"turkish-learning-bot/internal/domain/review"
	"turkish-learning-bot/internal/domain/word"
)

// Streak is the consecutive-day usage counter. Day comparison uses the local
// calendar date, not elapsed hours: crossing midnight always starts a new
// day even when less than 24h elapsed.
type Streak struct {
	Current    int        `json:"current"`
	Best       int        `json:"best"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}

// Tracker exclusively owns the streak record.
type Tracker struct {
	streak Streak
}

// NewTracker creates a tracker seeded from a loaded streak record.
func NewTracker(streak Streak) *Tracker {
	return &Tracker{streak: streak}
}

// RecordActivity advances the streak. Invoked at most once per quiz
// completion; repeated completions on the same calendar day do not advance
// it further.
func (t *Tracker) RecordActivity(now time.Time) {
	s := &t.streak

	switch {
	case s.LastActive != nil && sameDay(*s.LastActive, now):
		// already counted today
	case s.LastActive != nil && sameDay(s.LastActive.AddDate(0, 0, 1), now):
		s.Current++
	default:
		// no prior activity, or a gap of two or more days
		s.Current = 1
	}

	active := now
	s.LastActive = &active
	if s.Current > s.Best {
		s.Best = s.Current
	}
}

// ActiveToday reports whether activity was already recorded on now's
// calendar day.
func (t *Tracker) ActiveToday(now time.Time) bool {
	return t.streak.LastActive != nil && sameDay(*t.streak.LastActive, now)
}

// Snapshot returns a copy of the streak record for persistence.
func (t *Tracker) Snapshot() Streak {
	return t.streak
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// AppStats is the derived aggregate shown on the stats screen. It is
// recomputed on demand and never independently authoritative; only the
// embedded streak record is owned state.
type AppStats struct {
	TotalWords int    `json:"totalWords"`
	Learned    int    `json:"learned"`
	Favorites  int    `json:"favorites"`
	Hard       int    `json:"hard"`
	Due        int    `json:"due"`
	Streak     Streak `json:"streak"`
}

// ComputeStats recomputes the aggregate from the current word collection.
func ComputeStats(words []*word.Word, scheduler *review.Scheduler, streak Streak, now time.Time) AppStats {
	stats := AppStats{
		TotalWords: len(words),
		Streak:     streak,
	}
	for _, w := range words {
		if w.Stats.Learned {
			stats.Learned++
		}
		if w.Favorite {
			stats.Favorites++
		}
		if scheduler.IsHard(w) {
			stats.Hard++
		}
		if !w.Stats.NextReviewDate.After(now) {
			stats.Due++
		}
	}
	return stats
}
