package word

import (
	"encoding/json"
	"time"
)

// Level represents a CEFR proficiency level
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// DefaultLevel is assigned when a word is added without a level.
const DefaultLevel = LevelC1

// IsValidLevel checks if a level is valid
func IsValidLevel(level string) bool {
	switch Level(level) {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	default:
		return false
	}
}

// Example is a usage sentence attached to a word. Older exports stored
// examples as bare strings; those decode as an Example with only the
// english sentence set.
type Example struct {
	English string `json:"english"`
	Turkish string `json:"turkish,omitempty"`
	Context string `json:"context,omitempty"`
}

type exampleAlias Example

// UnmarshalJSON accepts either a JSON string or an example object.
func (e *Example) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = Example{English: s}
		return nil
	}

	var a exampleAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Example(a)
	return nil
}

// Stats holds the review statistics for a word. It is mutated only by the
// review scheduler and the quiz engine.
type Stats struct {
	AddedAt         time.Time  `json:"addedAt"`
	TimesTested     int        `json:"timesTested"`
	CorrectCount    int        `json:"correctCount"`
	WrongCount      int        `json:"wrongCount"`
	LastTested      *time.Time `json:"lastTested,omitempty"`
	DifficultyScore int        `json:"difficultyScore"`
	NextReviewDate  time.Time  `json:"nextReviewDate"`
	Learned         bool       `json:"learned"`
}

// Word represents a vocabulary entry with its translation and review stats
type Word struct {
	ID                 string    `json:"id"`
	English            string    `json:"english"`
	Turkish            string    `json:"turkish"`
	Pronunciation      string    `json:"pronunciation,omitempty"`
	EnglishExplanation string    `json:"englishExplanation,omitempty"`
	TurkishExplanation string    `json:"turkishExplanation,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	Synonyms           []string  `json:"synonyms"`
	Antonyms           []string  `json:"antonyms"`
	Examples           []Example `json:"examples"`
	Level              Level     `json:"level"`
	Categories         []string  `json:"categories"`
	Favorite           bool      `json:"favorite"`
	Stats              Stats     `json:"stats"`
}

// HasCategory reports whether the word references the given category name.
func (w *Word) HasCategory(name string) bool {
	for _, c := range w.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// FirstExample returns the word's first example sentence, or empty strings
// when the word has none.
func (w *Word) FirstExample() (Example, bool) {
	if len(w.Examples) == 0 {
		return Example{}, false
	}
	return w.Examples[0], true
}
