// Package state defines the serialized application aggregate: the single
// blob the persistence boundary reads and writes.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"turkish-learning-bot/internal/domain/progress"
	"turkish-learning-bot/internal/domain/quiz"
	"turkish-learning-bot/internal/domain/word"
)

const (
	// StateKey is the fixed storage key for the aggregate blob.
	StateKey = "vocab:state"
	// BackupKey holds the most recent prior blob as a rollback copy,
	// rotated just before every successful write.
	BackupKey = "vocab:state:prev"

	// SchemaVersion 2 replaced the v1 turkish-explanation field aliases
	// with the single canonical field.
	SchemaVersion = 2
)

// Meta describes a serialized aggregate.
type Meta struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
}

// AppState is the whole persisted aggregate.
type AppState struct {
	Meta       Meta                `json:"meta"`
	Words      []*word.Word        `json:"words"`
	Categories []string            `json:"categories"`
	History    []quiz.HistoryEntry `json:"history"`
	Streak     progress.Streak     `json:"streak"`
}

// Default returns the state a fresh installation boots with.
func Default() *AppState {
	return &AppState{
		Meta:       Meta{Version: SchemaVersion},
		Words:      []*word.Word{},
		Categories: []string{},
		History:    []quiz.HistoryEntry{},
	}
}

// Decode parses a stored blob, shallow-merging it over defaults so that
// partially-shaped or older-version payloads load with missing fields backed
// by defaults. Version 1 payloads are migrated in place.
func Decode(data []byte) (*AppState, error) {
	st := Default()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}

	if st.Meta.Version < SchemaVersion {
		if err := migrateV1(data, st); err != nil {
			return nil, fmt.Errorf("failed to migrate state: %w", err)
		}
		st.Meta.Version = SchemaVersion
	}

	return st, nil
}

// Encode serializes the aggregate, stamping the schema version and save
// time.
func (s *AppState) Encode(now time.Time) ([]byte, error) {
	s.Meta.Version = SchemaVersion
	s.Meta.SavedAt = now
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// v1 payloads mirrored the turkish explanation under up to three keys;
// migration coalesces them into the canonical field once at load time.
type v1WordAliases struct {
	TurkishExplanation string `json:"turkishExplanation"`
	Definition         string `json:"definition"`
	MeaningTR          string `json:"meaning_tr"`
}

func migrateV1(data []byte, st *AppState) error {
	var probe struct {
		Words []v1WordAliases `json:"words"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe.Words) != len(st.Words) {
		return nil
	}
	for i, aliases := range probe.Words {
		if st.Words[i].TurkishExplanation != "" {
			continue
		}
		switch {
		case aliases.Definition != "":
			st.Words[i].TurkishExplanation = aliases.Definition
		case aliases.MeaningTR != "":
			st.Words[i].TurkishExplanation = aliases.MeaningTR
		}
	}
	return nil
}

// Snapshot assembles the current aggregate from its component owners.
func Snapshot(repo *word.Repository, history *quiz.History, tracker *progress.Tracker) *AppState {
	return &AppState{
		Meta:       Meta{Version: SchemaVersion},
		Words:      repo.All(),
		Categories: repo.RegisteredCategories(),
		History:    history.Entries(),
		Streak:     tracker.Snapshot(),
	}
}
