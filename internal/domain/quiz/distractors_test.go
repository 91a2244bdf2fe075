package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turkish-learning-bot/internal/domain/review"
	"turkish-learning-bot/internal/domain/word"
)

func distractorEngine(words []*word.Word) *Engine {
	repo := word.NewRepository(words, nil)
	return NewEngine(repo, review.NewScheduler(), rand.New(rand.NewSource(7)))
}

func TestEngine_Distractors_PreferSameLevel(t *testing.T) {
	t.Parallel()

	words := []*word.Word{
		{ID: "target", English: "target", Turkish: "hedef", Level: word.LevelA1},
		{ID: "a", English: "cat", Turkish: "kedi", Level: word.LevelA1},
		{ID: "b", English: "dog", Turkish: "köpek", Level: word.LevelA1},
		{ID: "c", English: "bird", Turkish: "kuş", Level: word.LevelA1},
		{ID: "d", English: "entropy", Turkish: "entropi", Level: word.LevelC2},
		{ID: "e", English: "paradigm", Turkish: "paradigma", Level: word.LevelC2},
	}
	e := distractorEngine(words)

	got := e.distractors(words[0], turkishField, "hedef")

	require.Len(t, got, 3)
	assert.ElementsMatch(t, []string{"kedi", "köpek", "kuş"}, got, "same-level words fill the whole set")
}

func TestEngine_Distractors_FallbackToFullPool(t *testing.T) {
	t.Parallel()

	words := []*word.Word{
		{ID: "target", English: "target", Turkish: "hedef", Level: word.LevelA1},
		{ID: "a", English: "cat", Turkish: "kedi", Level: word.LevelA1},
		{ID: "d", English: "entropy", Turkish: "entropi", Level: word.LevelC2},
		{ID: "e", English: "paradigm", Turkish: "paradigma", Level: word.LevelC2},
	}
	e := distractorEngine(words)

	got := e.distractors(words[0], turkishField, "hedef")

	require.Len(t, got, 3, "too few same-level words widens the pool")
	assert.ElementsMatch(t, []string{"kedi", "entropi", "paradigma"}, got)
}

func TestEngine_Distractors_NeverDuplicateCorrect(t *testing.T) {
	t.Parallel()

	words := []*word.Word{
		{ID: "target", English: "target", Turkish: "hedef", Level: word.LevelA1},
		{ID: "a", English: "goal", Turkish: "hedef", Level: word.LevelA1},
		{ID: "b", English: "dog", Turkish: "köpek", Level: word.LevelA1},
		{ID: "c", English: "bird", Turkish: "kuş", Level: word.LevelA1},
	}
	e := distractorEngine(words)

	got := e.distractors(words[0], turkishField, "hedef")

	assert.NotContains(t, got, "hedef", "a synonym sharing the answer text is skipped")
	assert.Len(t, got, 2)
}

func TestEngine_Distractors_FieldFallback(t *testing.T) {
	t.Parallel()

	words := []*word.Word{
		{ID: "target", English: "target", Turkish: "hedef", Level: word.LevelA1},
		{ID: "a", English: "untranslated", Turkish: "", Level: word.LevelA1},
		{ID: "b", English: "dog", Turkish: "köpek", Level: word.LevelA1},
		{ID: "c", English: "bird", Turkish: "kuş", Level: word.LevelA1},
	}
	e := distractorEngine(words)

	got := e.distractors(words[0], turkishField, "hedef")

	require.Len(t, got, 3)
	assert.Contains(t, got, "untranslated", "a word with no translation contributes its english text")
}

func TestEngine_BuildOptions_ContainsCorrect(t *testing.T) {
	t.Parallel()

	words := testWords(8)
	e := distractorEngine(words)

	for i := 0; i < 20; i++ {
		options := e.buildOptions(words[0], turkishField, words[0].Turkish)
		require.Len(t, options, 4)
		assert.Contains(t, options, words[0].Turkish)
	}
}
