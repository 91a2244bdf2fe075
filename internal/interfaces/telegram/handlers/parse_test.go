package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turkish-learning-bot/internal/domain/quiz"
)

func TestParseQuizArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      string
		listening bool
		wantSrc   quiz.Source
		wantTypes []quiz.QuestionType
		wantErr   bool
	}{
		{
			name:      "empty defaults to all with direct and reverse",
			args:      "",
			wantSrc:   quiz.Source{Kind: quiz.SourceAll},
			wantTypes: []quiz.QuestionType{quiz.QuestionDirect, quiz.QuestionReverse},
		},
		{
			name:      "due source",
			args:      "due",
			wantSrc:   quiz.Source{Kind: quiz.SourceDue},
			wantTypes: []quiz.QuestionType{quiz.QuestionDirect, quiz.QuestionReverse},
		},
		{
			name:      "source with explicit types",
			args:      "hard writing direct",
			wantSrc:   quiz.Source{Kind: quiz.SourceHard},
			wantTypes: []quiz.QuestionType{quiz.QuestionWriting, quiz.QuestionDirect},
		},
		{
			name:      "category takes a name",
			args:      "category travel",
			wantSrc:   quiz.Source{Kind: quiz.SourceCategory, Category: "travel"},
			wantTypes: []quiz.QuestionType{quiz.QuestionDirect, quiz.QuestionReverse},
		},
		{
			name:    "category without a name rejected",
			args:    "category",
			wantErr: true,
		},
		{
			name:      "case insensitive",
			args:      "DUE Writing",
			wantSrc:   quiz.Source{Kind: quiz.SourceDue},
			wantTypes: []quiz.QuestionType{quiz.QuestionWriting},
		},
		{
			name:      "listening allowed when synthesis is available",
			args:      "all listening",
			listening: true,
			wantSrc:   quiz.Source{Kind: quiz.SourceAll},
			wantTypes: []quiz.QuestionType{quiz.QuestionListening},
		},
		{
			name:    "listening rejected without synthesis",
			args:    "all listening",
			wantErr: true,
		},
		{
			name:    "unknown type rejected",
			args:    "all telepathy",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, types, err := parseQuizArgs(tt.args, tt.listening)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSrc, src)
			assert.Equal(t, tt.wantTypes, types)
		})
	}
}

func TestSplitAddArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        string
		wantEnglish string
		wantTurkish string
		wantOK      bool
	}{
		{"spaced separator", "apple - elma", "apple", "elma", true},
		{"bare hyphen", "apple-elma", "apple", "elma", true},
		{"extra whitespace", "  apple -   elma ", "apple", "elma", true},
		{"spaced separator wins over bare hyphen", "well-known - iyi bilinen", "well-known", "iyi bilinen", true},
		{"no separator", "apple elma", "", "", false},
		{"empty turkish", "apple - ", "", "", false},
		{"empty input", "", "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			english, turkish, ok := splitAddArgs(tt.args)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantEnglish, english)
				assert.Equal(t, tt.wantTurkish, turkish)
			}
		})
	}
}
