package usecases

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_usecases "turkish-learning-bot/internal/application/usecases/mock"
	"turkish-learning-bot/internal/domain/progress"
	"turkish-learning-bot/internal/domain/quiz"
	"turkish-learning-bot/internal/domain/state"
	"turkish-learning-bot/internal/domain/word"
)

func newTransferTest(t *testing.T, words []*word.Word, setupMock func(*mock_usecases.MockSnapshots)) (*TransferUseCase, *word.Repository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	snapshots := mock_usecases.NewMockSnapshots(ctrl)
	if setupMock != nil {
		setupMock(snapshots)
	}

	lock := &AppLock{}
	repo := word.NewRepository(words, nil)
	history := quiz.NewHistory(nil)
	tracker := progress.NewTracker(progress.Streak{})

	return NewTransferUseCase(lock, repo, history, tracker, snapshots, zap.NewNop()), repo
}

func exportDocument(t *testing.T, words []*word.Word, categories []string) []byte {
	t.Helper()

	st := state.Default()
	st.Words = words
	st.Categories = categories
	data, err := st.Encode(time.Now())
	require.NoError(t, err)
	return data
}

func TestTransferUseCase_Export(t *testing.T) {
	t.Parallel()

	words := []*word.Word{{ID: "w0", English: "apple", Turkish: "elma"}}
	uc, _ := newTransferTest(t, words, func(ms *mock_usecases.MockSnapshots) {
		ms.EXPECT().Flush(gomock.Any()).Return(nil)
	})

	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	filename, data, err := uc.Export(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, "vocab-export-2025-07-15.json", filename)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "meta")
	assert.Contains(t, doc, "words")
	assert.Contains(t, doc, "streak")
}

func TestTransferUseCase_ImportMerge(t *testing.T) {
	t.Parallel()

	t.Run("new words inserted, duplicates skipped", func(t *testing.T) {
		t.Parallel()

		existing := []*word.Word{{ID: "e0", English: "apple", Turkish: "elma"}}
		uc, repo := newTransferTest(t, existing, func(ms *mock_usecases.MockSnapshots) {
			ms.EXPECT().Flush(gomock.Any()).Return(nil)
		})

		data := exportDocument(t, []*word.Word{
			{ID: "i0", English: "Apple", Turkish: "different"}, // dup by english
			{ID: "i1", English: "pear", Turkish: "armut"},
		}, []string{"food"})

		stats, err := uc.ImportMerge(context.Background(), data)
		require.NoError(t, err)

		assert.Equal(t, 1, stats.Merged)
		assert.Equal(t, 1, stats.Skipped)
		assert.NotNil(t, repo.ByID("i1"), "imported id is preserved")
		assert.Nil(t, repo.ByID("i0"))
		assert.Equal(t, []string{"food"}, repo.RegisteredCategories())
	})

	t.Run("within-batch duplicates caught", func(t *testing.T) {
		t.Parallel()

		uc, repo := newTransferTest(t, nil, func(ms *mock_usecases.MockSnapshots) {
			ms.EXPECT().Flush(gomock.Any()).Return(nil)
		})

		data := exportDocument(t, []*word.Word{
			{ID: "i0", English: "pear", Turkish: "armut"},
			{ID: "i1", English: "PEAR", Turkish: "başka"},
		}, nil)

		stats, err := uc.ImportMerge(context.Background(), data)
		require.NoError(t, err)

		assert.Equal(t, 1, stats.Merged)
		assert.Equal(t, 1, stats.Skipped, "the first insertion makes the second a duplicate")
		assert.Equal(t, 1, repo.Count())
	})

	t.Run("malformed payloads rejected", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			data string
		}{
			{"not json", `{broken`},
			{"missing meta", `{"words":[]}`},
			{"missing words", `{"meta":{"version":2}}`},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				uc, repo := newTransferTest(t, nil, nil)
				_, err := uc.ImportMerge(context.Background(), []byte(tt.data))
				assert.Error(t, err)
				assert.Equal(t, 0, repo.Count(), "nothing is applied on rejection")
			})
		}
	})
}

func TestTransferUseCase_ImportReplace(t *testing.T) {
	t.Parallel()

	existing := []*word.Word{{ID: "e0", English: "apple", Turkish: "elma"}}
	uc, repo := newTransferTest(t, existing, func(ms *mock_usecases.MockSnapshots) {
		ms.EXPECT().Flush(gomock.Any()).Return(nil)
	})

	data := exportDocument(t, []*word.Word{
		{ID: "i0", English: "apple", Turkish: "elma"}, // duplicate of the old collection, imported anyway
		{ID: "i1", English: "pear", Turkish: "armut"},
	}, []string{"imported"})

	n, err := uc.ImportReplace(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, repo.Count())
	assert.Nil(t, repo.ByID("e0"), "old collection is discarded")
	assert.NotNil(t, repo.ByID("i0"))
	assert.Equal(t, []string{"imported"}, repo.RegisteredCategories())
}

func TestTransferUseCase_ImportReplace_Malformed(t *testing.T) {
	t.Parallel()

	existing := []*word.Word{{ID: "e0", English: "apple", Turkish: "elma"}}
	uc, repo := newTransferTest(t, existing, nil)

	_, err := uc.ImportReplace(context.Background(), []byte(`{"meta":{"version":2}}`))
	require.ErrorIs(t, err, ErrMalformedImport)
	assert.NotNil(t, repo.ByID("e0"), "rejection leaves the collection untouched")
}
