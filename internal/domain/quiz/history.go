package quiz

import "time"

// Tally is the per-word correct/total aggregation within one quiz.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// HistoryEntry is the persisted record of a completed quiz.
type HistoryEntry struct {
	QuizID  string           `json:"quizId"`
	Date    time.Time        `json:"date"`
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Details []Answer         `json:"details"`
	Words   map[string]Tally `json:"words,omitempty"`
}

// History is the append-only log of completed quizzes. It is unbounded;
// trimming is a presentation concern.
type History struct {
	entries []HistoryEntry
}

// NewHistory creates a history log seeded from a loaded state.
func NewHistory(entries []HistoryEntry) *History {
	return &History{entries: entries}
}

// Append adds an entry to the log.
func (h *History) Append(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

// Entries returns the log in append order.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of completed quizzes on record.
func (h *History) Len() int {
	return len(h.entries)
}
