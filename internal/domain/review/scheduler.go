// Package review implements the spaced-repetition scheduler: next-review
// interval selection, per-answer difficulty adjustment and the hardness
// classifier.
package review

import (
	"time"

	"turkish-learning-bot/internal/domain/word"
)

// intervalLadder holds the fixed next-review offsets in days. The ladder
// index is recomputed from net counts (correct - wrong - 1) on every correct
// answer, not advanced from a running pointer, so intervening wrong answers
// regress the index implicitly.
var intervalLadder = [...]int{1, 3, 7, 14, 30, 90}

const (
	// difficulty adjustment is asymmetric: wrong answers cost twice what
	// correct answers refund
	wrongPenalty  = 2
	correctRefund = 1

	hardDifficultyThreshold = 3
	hardErrorRateThreshold  = 0.4
	hardMinTested           = 3

	learnedCorrectThreshold = 5
)

// Scheduler computes next-review dates and difficulty scores from quiz
// outcomes and classifies hard words.
type Scheduler struct{}

// NewScheduler creates a review scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// RecordAnswer updates a word's stats for one submitted quiz answer.
func (s *Scheduler) RecordAnswer(w *word.Word, correct bool, now time.Time) {
	st := &w.Stats
	st.TimesTested++
	t := now
	st.LastTested = &t

	if correct {
		st.CorrectCount++
		if st.DifficultyScore > 0 {
			st.DifficultyScore -= correctRefund
		}
		days := intervalLadder[ladderIndex(st.CorrectCount-st.WrongCount-1)]
		st.NextReviewDate = now.AddDate(0, 0, days)
	} else {
		st.WrongCount++
		st.DifficultyScore += wrongPenalty
		st.NextReviewDate = now.AddDate(0, 0, 1)
	}

	// learned latches: RecordAnswer never clears it, only a manual toggle
	// or a stats reset does
	if st.CorrectCount >= learnedCorrectThreshold && st.WrongCount == 0 {
		st.Learned = true
	}
}

// IsHard reports whether a word meets the difficulty-or-error-rate
// threshold. Recomputed from current stats on every call, never cached.
func (s *Scheduler) IsHard(w *word.Word) bool {
	st := w.Stats
	if st.DifficultyScore >= hardDifficultyThreshold {
		return true
	}
	if st.TimesTested >= hardMinTested {
		rate := float64(st.WrongCount) / float64(st.TimesTested)
		if rate >= hardErrorRateThreshold {
			return true
		}
	}
	return false
}

// DueWords returns the words whose next review date has passed. Order is not
// guaranteed; consumers may sort.
func (s *Scheduler) DueWords(words []*word.Word, now time.Time) []*word.Word {
	var due []*word.Word
	for _, w := range words {
		if !w.Stats.NextReviewDate.After(now) {
			due = append(due, w)
		}
	}
	return due
}

// HardWords returns the words currently classified as hard.
func (s *Scheduler) HardWords(words []*word.Word) []*word.Word {
	var hard []*word.Word
	for _, w := range words {
		if s.IsHard(w) {
			hard = append(hard, w)
		}
	}
	return hard
}

func ladderIndex(netStreak int) int {
	if netStreak < 0 {
		return 0
	}
	if netStreak >= len(intervalLadder) {
		return len(intervalLadder) - 1
	}
	return netStreak
}
