// Package quiz implements the quiz engine: source resolution, question
// building, answer evaluation and history aggregation.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"turkish-learning-bot/internal/domain/review"
	"turkish-learning-bot/internal/domain/word"
)

// QuestionType represents the type of question being asked
type QuestionType string

const (
	// QuestionDirect shows the english word and asks for the turkish
	// translation among multiple choices.
	QuestionDirect QuestionType = "direct"
	// QuestionReverse shows the turkish translation and asks for the
	// english word among multiple choices.
	QuestionReverse QuestionType = "reverse"
	// QuestionWriting shows a cloze sentence with the english word masked
	// and a shuffled letter pool to reconstruct it from.
	QuestionWriting QuestionType = "writing"
	// QuestionListening plays synthesized audio of the english word and
	// asks to type it.
	QuestionListening QuestionType = "listening"
)

// SourceKind selects which subset of the repository a quiz draws from.
type SourceKind string

const (
	SourceAll       SourceKind = "all"
	SourceDue       SourceKind = "due"
	SourceFavorites SourceKind = "favorites"
	SourceHard      SourceKind = "hard"
	SourceCategory  SourceKind = "category"
	SourceCustom    SourceKind = "custom"
)

// Source specifies the candidate word set for a quiz. Category is used only
// with SourceCategory, IDs only with SourceCustom.
type Source struct {
	Kind     SourceKind
	Category string
	IDs      []string
}

// minCandidates is the smallest candidate set a non-custom source may
// resolve to.
const minCandidates = 5

// State tracks the quiz lifecycle.
type State string

const (
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Question is one prompt within a quiz.
type Question struct {
	Word       *word.Word
	Type       QuestionType
	Prompt     string
	Options    []string // direct/reverse only: correct answer plus distractors, shuffled
	LetterPool []string // writing only: shuffled letters of the answer
	Answer     string
}

// Answer records one submitted answer. Entries are immutable once appended.
type Answer struct {
	WordID        string       `json:"wordId"`
	Type          QuestionType `json:"type"`
	UserAnswer    string       `json:"userAnswer"`
	CorrectAnswer string       `json:"correctAnswer"`
	Correct       bool         `json:"correct"`
}

// Result is returned for each submitted answer.
type Result struct {
	Correct       bool
	CorrectAnswer string
	Done          bool
}

// Quiz is a transient, in-progress quiz instance. It is not persisted;
// completion converts it into a HistoryEntry.
type Quiz struct {
	ID        string
	Questions []Question
	Answers   []Answer
	StartedAt time.Time
	pos       int
	state     State
}

// State returns the quiz lifecycle state.
func (q *Quiz) State() State { return q.state }

// Current returns the question at the cursor, or nil once complete.
func (q *Quiz) Current() *Question {
	if q.state != StateInProgress || q.pos >= len(q.Questions) {
		return nil
	}
	return &q.Questions[q.pos]
}

// Progress returns the cursor position and total question count.
func (q *Quiz) Progress() (answered, total int) {
	return q.pos, len(q.Questions)
}

// Score counts the correct answers submitted so far.
func (q *Quiz) Score() int {
	score := 0
	for _, a := range q.Answers {
		if a.Correct {
			score++
		}
	}
	return score
}

// Engine builds quizzes from the repository and evaluates answers against
// the review scheduler.
type Engine struct {
	repo      *word.Repository
	scheduler *review.Scheduler
	rng       *rand.Rand
}

// NewEngine creates a quiz engine. A nil rng falls back to a time-seeded
// source; tests inject a fixed seed for deterministic sampling.
func NewEngine(repo *word.Repository, scheduler *review.Scheduler, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		repo:      repo,
		scheduler: scheduler,
		rng:       rng,
	}
}

// Start resolves the source to a candidate set, samples words and builds the
// question list as the cross product of sampled words and question types.
// When randomize is set the full question list is shuffled independently,
// not grouped by word.
func (e *Engine) Start(src Source, types []QuestionType, wordCount int, randomize bool, now time.Time) (*Quiz, error) {
	if len(types) == 0 {
		return nil, errors.New("at least one question type must be selected")
	}

	candidates, err := e.resolveSource(src, now)
	if err != nil {
		return nil, err
	}

	words := candidates
	if src.Kind != SourceCustom {
		if len(candidates) < minCandidates {
			return nil, fmt.Errorf("insufficient words: need at least %d, have %d", minCandidates, len(candidates))
		}
		n := wordCount
		if n > len(candidates) {
			n = len(candidates)
		}
		words = e.sample(candidates, n)
	}

	questions := make([]Question, 0, len(words)*len(types))
	for _, w := range words {
		for _, t := range types {
			questions = append(questions, e.buildQuestion(w, t))
		}
	}

	if randomize {
		e.rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	return &Quiz{
		ID:        uuid.NewString(),
		Questions: questions,
		StartedAt: now,
		state:     StateInProgress,
	}, nil
}

// Submit evaluates the answer to the current question, records it and
// updates the word's review stats. Advancing past the last question
// completes the quiz.
func (e *Engine) Submit(q *Quiz, rawInput string, now time.Time) (Result, error) {
	cur := q.Current()
	if cur == nil {
		return Result{}, errors.New("quiz is not in progress")
	}

	correct := evaluate(cur, rawInput)
	q.Answers = append(q.Answers, Answer{
		WordID:        cur.Word.ID,
		Type:          cur.Type,
		UserAnswer:    rawInput,
		CorrectAnswer: cur.Answer,
		Correct:       correct,
	})

	e.scheduler.RecordAnswer(cur.Word, correct, now)

	q.pos++
	if q.pos >= len(q.Questions) {
		q.state = StateComplete
	}

	return Result{
		Correct:       correct,
		CorrectAnswer: cur.Answer,
		Done:          q.state == StateComplete,
	}, nil
}

// Finish converts a completed quiz into a history entry. The caller records
// streak activity exactly once per completion.
func (e *Engine) Finish(q *Quiz, now time.Time) (HistoryEntry, error) {
	if q.state != StateComplete {
		return HistoryEntry{}, errors.New("quiz is not complete")
	}

	tallies := make(map[string]Tally, len(q.Answers))
	score := 0
	for _, a := range q.Answers {
		t := tallies[a.WordID]
		t.Total++
		if a.Correct {
			t.Correct++
			score++
		}
		tallies[a.WordID] = t
	}

	return HistoryEntry{
		QuizID:  q.ID,
		Date:    now,
		Score:   score,
		Total:   len(q.Answers),
		Details: append([]Answer(nil), q.Answers...),
		Words:   tallies,
	}, nil
}

// Retake restarts a completed quiz with identical question order and
// content, a fresh answer list and a new id. Retaking with a fresh source is
// a new Start instead.
func (e *Engine) Retake(q *Quiz, now time.Time) error {
	if q.state != StateComplete {
		return errors.New("only a completed quiz can be retaken")
	}
	q.ID = uuid.NewString()
	q.Answers = nil
	q.pos = 0
	q.StartedAt = now
	q.state = StateInProgress
	return nil
}

func (e *Engine) resolveSource(src Source, now time.Time) ([]*word.Word, error) {
	switch src.Kind {
	case SourceAll:
		return e.repo.All(), nil
	case SourceDue:
		return e.scheduler.DueWords(e.repo.All(), now), nil
	case SourceFavorites:
		return e.repo.Favorites(), nil
	case SourceHard:
		return e.scheduler.HardWords(e.repo.All()), nil
	case SourceCategory:
		return e.repo.ByCategory(src.Category), nil
	case SourceCustom:
		words := make([]*word.Word, 0, len(src.IDs))
		for _, id := range src.IDs {
			if w := e.repo.ByID(id); w != nil {
				words = append(words, w)
			}
		}
		return words, nil
	default:
		return nil, fmt.Errorf("unknown quiz source: %s", src.Kind)
	}
}

// sample picks n words without replacement via a Fisher-Yates shuffle of a
// copy of the candidate slice.
func (e *Engine) sample(candidates []*word.Word, n int) []*word.Word {
	pool := make([]*word.Word, len(candidates))
	copy(pool, candidates)
	for i := len(pool) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func (e *Engine) buildQuestion(w *word.Word, t QuestionType) Question {
	q := Question{Word: w, Type: t}

	switch t {
	case QuestionDirect:
		q.Prompt = w.English
		q.Answer = w.Turkish
		q.Options = e.buildOptions(w, turkishField, q.Answer)
	case QuestionReverse:
		q.Prompt = w.Turkish
		if q.Prompt == "" {
			q.Prompt = w.TurkishExplanation
		}
		q.Answer = w.English
		q.Options = e.buildOptions(w, englishField, q.Answer)
	case QuestionWriting:
		q.Prompt = e.clozeSentence(w)
		q.Answer = w.English
		q.LetterPool = e.letterPool(w.English)
	case QuestionListening:
		// the prompt is the text handed to the speech synthesizer
		q.Prompt = w.English
		q.Answer = w.English
	}

	return q
}

// clozeSentence builds the writing prompt from the word's first example (or
// its explanation) with the english word masked.
func (e *Engine) clozeSentence(w *word.Word) string {
	sentence := w.EnglishExplanation
	if ex, ok := w.FirstExample(); ok && ex.English != "" {
		sentence = ex.English
	}
	if sentence == "" {
		return clozeMask
	}
	return maskWord(sentence, w.English)
}

const clozeMask = "_____"

func maskWord(sentence, target string) string {
	if target == "" {
		return sentence
	}
	lower := strings.ToLower(sentence)
	needle := strings.ToLower(target)

	var b strings.Builder
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(sentence)
			return b.String()
		}
		b.WriteString(sentence[:i])
		b.WriteString(clozeMask)
		sentence = sentence[i+len(needle):]
		lower = lower[i+len(needle):]
	}
}

// letterPool returns the letters of the answer in shuffled order; the
// writing question is reconstructed letter by letter from this pool.
func (e *Engine) letterPool(answer string) []string {
	runes := []rune(answer)
	pool := make([]string, len(runes))
	for i, r := range runes {
		pool[i] = string(r)
	}
	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

// evaluate compares raw input per the question type's rule: exact equality
// for choice questions, case-insensitive for typed input.
func evaluate(q *Question, rawInput string) bool {
	switch q.Type {
	case QuestionWriting, QuestionListening:
		return strings.EqualFold(strings.TrimSpace(rawInput), strings.TrimSpace(q.Answer))
	default:
		return rawInput == q.Answer
	}
}
