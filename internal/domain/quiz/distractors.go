package quiz

import "turkish-learning-bot/internal/domain/word"

// distractorCount is the number of wrong options accompanying the correct
// answer in choice questions.
const distractorCount = 3

type fieldFunc func(*word.Word) string

// turkishField picks the option text for direct questions, falling back to
// english when the word has no translation.
func turkishField(w *word.Word) string {
	if w.Turkish != "" {
		return w.Turkish
	}
	return w.English
}

func englishField(w *word.Word) string {
	return w.English
}

// buildOptions returns the displayed option set: the correct answer plus up
// to three distractors, shuffled.
func (e *Engine) buildOptions(w *word.Word, field fieldFunc, correct string) []string {
	options := append(e.distractors(w, field, correct), correct)
	e.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// distractors samples up to three other words, preferring the same level and
// falling back to the full pool when fewer than three share it. The correct
// answer never appears among the distractors.
func (e *Engine) distractors(w *word.Word, field fieldFunc, correct string) []string {
	pool := e.otherWords(w, true)
	if len(pool) < distractorCount {
		pool = e.otherWords(w, false)
	}

	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	seen := map[string]bool{correct: true}
	out := make([]string, 0, distractorCount)
	for _, cand := range pool {
		value := field(cand)
		if value == "" {
			value = cand.English
		}
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
		if len(out) == distractorCount {
			break
		}
	}
	return out
}

func (e *Engine) otherWords(w *word.Word, sameLevel bool) []*word.Word {
	var out []*word.Word
	for _, cand := range e.repo.All() {
		if cand.ID == w.ID {
			continue
		}
		if sameLevel && cand.Level != w.Level {
			continue
		}
		out = append(out, cand)
	}
	return out
}
