package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"turkish-learning-bot/internal/domain/progress"
	"turkish-learning-bot/internal/domain/quiz"
	"turkish-learning-bot/internal/domain/state"
	"turkish-learning-bot/internal/domain/word"
)

// MergeStats reports the outcome of an import merge.
type MergeStats struct {
	Merged  int
	Skipped int
}

// TransferUseCase handles export and import of the serialized aggregate.
type TransferUseCase struct {
	lock      *AppLock
	repo      *word.Repository
	history   *quiz.History
	tracker   *progress.Tracker
	snapshots Snapshots
	log       *zap.Logger
}

// NewTransferUseCase creates a new transfer use case.
func NewTransferUseCase(
	lock *AppLock,
	repo *word.Repository,
	history *quiz.History,
	tracker *progress.Tracker,
	snapshots Snapshots,
	log *zap.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		lock:      lock,
		repo:      repo,
		history:   history,
		tracker:   tracker,
		snapshots: snapshots,
		log:       log,
	}
}

// Export produces the full serialized aggregate as a downloadable document.
// The filename carries the current date. Exporting is an explicit save
// point, so the store is flushed too.
func (uc *TransferUseCase) Export(ctx context.Context, now time.Time) (string, []byte, error) {
	uc.lock.Lock()
	data, err := state.Snapshot(uc.repo, uc.history, uc.tracker).Encode(now)
	uc.lock.Unlock()
	if err != nil {
		return "", nil, err
	}

	if err := uc.snapshots.Flush(ctx); err != nil {
		uc.log.Warn("failed to persist on export", zap.Error(err))
	}

	filename := fmt.Sprintf("vocab-export-%s.json", now.Format(time.DateOnly))
	return filename, data, nil
}

// importDocument detects absent top-level fields: a document without meta or
// words is rejected atomically, nothing is applied.
type importDocument struct {
	Meta       *state.Meta   `json:"meta"`
	Words      *[]*word.Word `json:"words"`
	Categories []string      `json:"categories"`
}

// ErrMalformedImport rejects payloads missing the required top-level fields.
var ErrMalformedImport = errors.New("invalid import file: missing meta or words")

// ImportMerge reconciles an imported word collection against the existing
// repository. Words with no duplicate match are inserted verbatim,
// preserving their original ids; matches are skipped (first write wins). The
// duplicate predicate re-evaluates against the repository after every
// insertion, so within-batch duplicates are caught too.
func (uc *TransferUseCase) ImportMerge(ctx context.Context, data []byte) (MergeStats, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return MergeStats{}, err
	}

	uc.lock.Lock()
	var stats MergeStats
	for _, w := range *doc.Words {
		if uc.repo.FindDuplicate(w.English, w.Turkish) != nil {
			stats.Skipped++
			continue
		}
		uc.repo.Insert(w)
		stats.Merged++
	}
	for _, c := range doc.Categories {
		uc.repo.RegisterCategory(c)
	}
	uc.lock.Unlock()

	if err := uc.snapshots.Flush(ctx); err != nil {
		uc.log.Warn("failed to persist after import", zap.Error(err))
	}

	uc.log.Info("import merged", zap.Int("merged", stats.Merged), zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// ImportReplace atomically discards the current repository and substitutes
// the imported one wholesale, bypassing dedup entirely.
func (uc *TransferUseCase) ImportReplace(ctx context.Context, data []byte) (int, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return 0, err
	}

	uc.lock.Lock()
	uc.repo.ReplaceAll(*doc.Words, doc.Categories)
	uc.lock.Unlock()

	if err := uc.snapshots.Flush(ctx); err != nil {
		uc.log.Warn("failed to persist after import", zap.Error(err))
	}

	uc.log.Info("import replaced repository", zap.Int("words", len(*doc.Words)))
	return len(*doc.Words), nil
}

func parseDocument(data []byte) (*importDocument, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid import file: %w", err)
	}
	if doc.Meta == nil || doc.Words == nil {
		return nil, ErrMalformedImport
	}
	return &doc, nil
}
