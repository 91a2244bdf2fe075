package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"turkish-learning-bot/internal/domain/progress"
	"turkish-learning-bot/internal/domain/quiz"
	"turkish-learning-bot/internal/domain/review"
	"turkish-learning-bot/internal/domain/word"
	"turkish-learning-bot/pkg/validator"
)

// AppLock serializes engine mutations across the handler, reminder and
// import paths. The state tree is a single mutable aggregate with
// last-write-wins semantics; one logical actor mutates it at a time.
type AppLock struct {
	sync.Mutex
}

// Snapshots is the persistence policy the use cases drive: MarkDirty
// coalesces rapid mutations, Flush is the unconditional must-persist path.
type Snapshots interface {
	MarkDirty()
	Flush(ctx context.Context) error
}

// LearningUseCase orchestrates the word repository, review scheduler, quiz
// engine and streak tracker.
type LearningUseCase struct {
	lock      *AppLock
	repo      *word.Repository
	scheduler *review.Scheduler
	engine    *quiz.Engine
	tracker   *progress.Tracker
	history   *quiz.History
	snapshots Snapshots
	log       *zap.Logger
}

// NewLearningUseCase creates a new learning use case.
func NewLearningUseCase(
	lock *AppLock,
	repo *word.Repository,
	scheduler *review.Scheduler,
	engine *quiz.Engine,
	tracker *progress.Tracker,
	history *quiz.History,
	snapshots Snapshots,
	log *zap.Logger,
) *LearningUseCase {
	return &LearningUseCase{
		lock:      lock,
		repo:      repo,
		scheduler: scheduler,
		engine:    engine,
		tracker:   tracker,
		history:   history,
		snapshots: snapshots,
		log:       log,
	}
}

// WordInput carries the caller-supplied fields for a new word. The engine
// itself is permissive; this validation layer is where missing required
// fields are rejected.
type WordInput struct {
	English            string `validate:"required"`
	Turkish            string `validate:"required"`
	Pronunciation      string
	EnglishExplanation string
	TurkishExplanation string
	Notes              string
	Synonyms           []string
	Antonyms           []string
	Examples           []word.Example
	Level              string `validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Categories         []string
}

// AddWord validates the input and stores a new word. Duplicate checking is
// the caller's concern (see FindDuplicate); a confirmed duplicate is still
// added.
func (uc *LearningUseCase) AddWord(in WordInput) (*word.Word, error) {
	in.English = strings.TrimSpace(in.English)
	in.Turkish = strings.TrimSpace(in.Turkish)
	if err := validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	uc.lock.Lock()
	defer uc.lock.Unlock()

	w := uc.repo.Add(word.Word{
		English:            in.English,
		Turkish:            in.Turkish,
		Pronunciation:      in.Pronunciation,
		EnglishExplanation: in.EnglishExplanation,
		TurkishExplanation: in.TurkishExplanation,
		Notes:              in.Notes,
		Synonyms:           in.Synonyms,
		Antonyms:           in.Antonyms,
		Examples:           in.Examples,
		Level:              word.Level(in.Level),
		Categories:         in.Categories,
	}, time.Now())

	uc.snapshots.MarkDirty()
	uc.log.Info("word added", zap.String("id", w.ID), zap.String("english", w.English))
	return w, nil
}

// FindDuplicate returns an existing word that would collide with the given
// pair, or nil. This is a candidate signal for interactive confirmation, not
// a hard constraint.
func (uc *LearningUseCase) FindDuplicate(english, turkish string) *word.Word {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.repo.FindDuplicate(english, turkish)
}

// UpdateWord merges a partial update into an existing word. Returns nil for
// an unknown id.
func (uc *LearningUseCase) UpdateWord(id string, p word.Patch) *word.Word {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	w := uc.repo.Update(id, p)
	if w != nil {
		uc.snapshots.MarkDirty()
	}
	return w
}

// DeleteWord removes a word and reports whether it existed.
func (uc *LearningUseCase) DeleteWord(id string) bool {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	ok := uc.repo.Delete(id)
	if ok {
		uc.snapshots.MarkDirty()
	}
	return ok
}

// ToggleFavorite flips the favorite flag, returning the new value and
// whether the id was known.
func (uc *LearningUseCase) ToggleFavorite(id string) (bool, bool) {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	value, ok := uc.repo.ToggleFavorite(id)
	if ok {
		uc.snapshots.MarkDirty()
	}
	return value, ok
}

// Words returns one page of the collection plus the total count.
func (uc *LearningUseCase) Words(offset, limit int) ([]*word.Word, int) {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	all := uc.repo.All()
	total := len(all)
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total
}

// StartQuiz builds a quiz from the given source and question types.
func (uc *LearningUseCase) StartQuiz(src quiz.Source, types []quiz.QuestionType, wordCount int, randomize bool) (*quiz.Quiz, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	q, err := uc.engine.Start(src, types, wordCount, randomize, time.Now())
	if err != nil {
		uc.log.Info("quiz start rejected", zap.String("source", string(src.Kind)), zap.Error(err))
		return nil, err
	}

	uc.log.Info("quiz started",
		zap.String("quiz_id", q.ID),
		zap.String("source", string(src.Kind)),
		zap.Int("questions", len(q.Questions)))
	return q, nil
}

// SubmitAnswer evaluates one answer, updating the word's review stats.
func (uc *LearningUseCase) SubmitAnswer(q *quiz.Quiz, rawInput string) (quiz.Result, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	res, err := uc.engine.Submit(q, rawInput, time.Now())
	if err != nil {
		return quiz.Result{}, err
	}
	uc.snapshots.MarkDirty()
	return res, nil
}

// FinishQuiz converts a completed quiz into a history entry, records streak
// activity once and forces a persist.
func (uc *LearningUseCase) FinishQuiz(ctx context.Context, q *quiz.Quiz) (quiz.HistoryEntry, error) {
	uc.lock.Lock()
	now := time.Now()
	entry, err := uc.engine.Finish(q, now)
	if err != nil {
		uc.lock.Unlock()
		return quiz.HistoryEntry{}, err
	}
	uc.history.Append(entry)
	uc.tracker.RecordActivity(now)
	uc.lock.Unlock()

	// quiz completion is a must-persist point
	if err := uc.snapshots.Flush(ctx); err != nil {
		uc.log.Warn("failed to persist finished quiz", zap.Error(err))
	}

	uc.log.Info("quiz finished",
		zap.String("quiz_id", q.ID),
		zap.Int("score", entry.Score),
		zap.Int("total", entry.Total))
	return entry, nil
}

// RetakeQuiz restarts a completed quiz with identical questions.
func (uc *LearningUseCase) RetakeQuiz(q *quiz.Quiz) error {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.engine.Retake(q, time.Now())
}

// Stats recomputes the derived aggregate statistics.
func (uc *LearningUseCase) Stats() progress.AppStats {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return progress.ComputeStats(uc.repo.All(), uc.scheduler, uc.tracker.Snapshot(), time.Now())
}

// DueCount reports how many words are due for review. Polled by the
// reminder service.
func (uc *LearningUseCase) DueCount(now time.Time) int {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return len(uc.scheduler.DueWords(uc.repo.All(), now))
}

// ActiveToday reports whether a quiz was already completed on now's calendar
// day. Polled by the reminder service.
func (uc *LearningUseCase) ActiveToday(now time.Time) bool {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.tracker.ActiveToday(now)
}

// Categories enumerates all known categories.
func (uc *LearningUseCase) Categories() []string {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.repo.Categories()
}

// RenameCategory renames a category everywhere it is referenced.
func (uc *LearningUseCase) RenameCategory(old, new string) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	uc.repo.RenameCategory(old, new)
	uc.snapshots.MarkDirty()
}

// RemoveCategory deletes a category everywhere it is referenced.
func (uc *LearningUseCase) RemoveCategory(name string) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	uc.repo.RemoveCategory(name)
	uc.snapshots.MarkDirty()
}
