package word

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository owns the canonical in-memory collection of words and the
// registered category list. It is permissive by design: input validation is a
// caller responsibility, and duplicate detection is a candidate signal for
// interactive confirmation, not a uniqueness constraint.
type Repository struct {
	words      []*Word
	categories []string
}

// NewRepository creates a repository seeded with previously loaded words and
// registered categories. Both slices may be nil.
func NewRepository(words []*Word, categories []string) *Repository {
	return &Repository{
		words:      words,
		categories: categories,
	}
}

// Patch carries a partial word update. Nil fields are left untouched; Stats
// is never part of a patch.
type Patch struct {
	English            *string
	Turkish            *string
	Pronunciation      *string
	EnglishExplanation *string
	TurkishExplanation *string
	Notes              *string
	Synonyms           *[]string
	Antonyms           *[]string
	Examples           *[]Example
	Level              *Level
	Categories         *[]string
	Favorite           *bool
}

// Add stores a new word, assigning a fresh id and applying field defaults.
func (r *Repository) Add(w Word, now time.Time) *Word {
	w.ID = uuid.NewString()
	if w.Level == "" {
		w.Level = DefaultLevel
	}
	if w.Synonyms == nil {
		w.Synonyms = []string{}
	}
	if w.Antonyms == nil {
		w.Antonyms = []string{}
	}
	if w.Examples == nil {
		w.Examples = []Example{}
	}
	if w.Categories == nil {
		w.Categories = []string{}
	}
	w.Stats = Stats{
		AddedAt:        now,
		NextReviewDate: now,
	}

	stored := w
	r.words = append(r.words, &stored)
	return &stored
}

// Insert stores an imported word verbatim, preserving its original id.
func (r *Repository) Insert(w *Word) {
	r.words = append(r.words, w)
}

// Update merges the patch into an existing word, overwriting only provided
// fields. Stats are always preserved. Returns nil for an unknown id.
func (r *Repository) Update(id string, p Patch) *Word {
	w := r.ByID(id)
	if w == nil {
		return nil
	}

	if p.English != nil {
		w.English = *p.English
	}
	if p.Turkish != nil {
		w.Turkish = *p.Turkish
	}
	if p.Pronunciation != nil {
		w.Pronunciation = *p.Pronunciation
	}
	if p.EnglishExplanation != nil {
		w.EnglishExplanation = *p.EnglishExplanation
	}
	if p.TurkishExplanation != nil {
		w.TurkishExplanation = *p.TurkishExplanation
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	if p.Synonyms != nil {
		w.Synonyms = *p.Synonyms
	}
	if p.Antonyms != nil {
		w.Antonyms = *p.Antonyms
	}
	if p.Examples != nil {
		w.Examples = *p.Examples
	}
	if p.Level != nil {
		w.Level = *p.Level
	}
	if p.Categories != nil {
		w.Categories = *p.Categories
	}
	if p.Favorite != nil {
		w.Favorite = *p.Favorite
	}

	return w
}

// Delete removes a word and reports whether it existed.
func (r *Repository) Delete(id string) bool {
	for i, w := range r.words {
		if w.ID == id {
			r.words = append(r.words[:i], r.words[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleFavorite flips the favorite flag and returns the new value. The
// second return is false for an unknown id.
func (r *Repository) ToggleFavorite(id string) (bool, bool) {
	w := r.ByID(id)
	if w == nil {
		return false, false
	}
	w.Favorite = !w.Favorite
	return w.Favorite, true
}

// FindDuplicate returns the first word whose english matches
// case-insensitively after trimming, or whose turkish matches when a
// non-empty turkish is supplied. Either match alone flags a duplicate.
func (r *Repository) FindDuplicate(english, turkish string) *Word {
	en := strings.ToLower(strings.TrimSpace(english))
	tr := strings.ToLower(strings.TrimSpace(turkish))

	for _, w := range r.words {
		if en != "" && strings.ToLower(strings.TrimSpace(w.English)) == en {
			return w
		}
		if tr != "" && strings.ToLower(strings.TrimSpace(w.Turkish)) == tr {
			return w
		}
	}
	return nil
}

// ByID retrieves a word by id, or nil if unknown.
func (r *Repository) ByID(id string) *Word {
	for _, w := range r.words {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// All returns the words in insertion order. The slice is a copy; the words
// themselves are shared.
func (r *Repository) All() []*Word {
	out := make([]*Word, len(r.words))
	copy(out, r.words)
	return out
}

// Count returns the number of stored words.
func (r *Repository) Count() int {
	return len(r.words)
}

// Favorites returns all words flagged as favorite.
func (r *Repository) Favorites() []*Word {
	var out []*Word
	for _, w := range r.words {
		if w.Favorite {
			out = append(out, w)
		}
	}
	return out
}

// ByCategory returns all words referencing the category name.
func (r *Repository) ByCategory(name string) []*Word {
	var out []*Word
	for _, w := range r.words {
		if w.HasCategory(name) {
			out = append(out, w)
		}
	}
	return out
}

// ByLevel returns all words at the given level.
func (r *Repository) ByLevel(level Level) []*Word {
	var out []*Word
	for _, w := range r.words {
		if w.Level == level {
			out = append(out, w)
		}
	}
	return out
}

// ReplaceAll atomically discards the current collection and substitutes the
// given one wholesale.
func (r *Repository) ReplaceAll(words []*Word, categories []string) {
	r.words = words
	r.categories = categories
}

// RegisterCategory adds a category to the explicit registry. Registering an
// already-known name is a no-op.
func (r *Repository) RegisterCategory(name string) {
	for _, c := range r.categories {
		if c == name {
			return
		}
	}
	r.categories = append(r.categories, name)
}

// RegisteredCategories returns the explicit category registry.
func (r *Repository) RegisteredCategories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// Categories enumerates every known category: the union of the explicit
// registry and the categories referenced by words, sorted.
func (r *Repository) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.categories {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, w := range r.words {
		for _, c := range w.Categories {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}

// RenameCategory renames a category in the registry and cascades the rename
// across all words referencing it.
func (r *Repository) RenameCategory(old, new string) {
	for i, c := range r.categories {
		if c == old {
			r.categories[i] = new
		}
	}
	for _, w := range r.words {
		for i, c := range w.Categories {
			if c == old {
				w.Categories[i] = new
			}
		}
	}
}

// RemoveCategory deletes a category from the registry and removes it from
// every word referencing it.
func (r *Repository) RemoveCategory(name string) {
	for i, c := range r.categories {
		if c == name {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			break
		}
	}
	for _, w := range r.words {
		for i, c := range w.Categories {
			if c == name {
				w.Categories = append(w.Categories[:i], w.Categories[i+1:]...)
				break
			}
		}
	}
}
