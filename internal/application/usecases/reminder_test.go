package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"turkish-learning-bot/internal/domain/word"
)

type captureNotifier struct {
	messages []string
}

func (n *captureNotifier) SendMessageWithMarkdown(chatID int64, text string) error {
	n.messages = append(n.messages, text)
	return nil
}

func newReminderTest(t *testing.T, words []*word.Word, cfg *ReminderConfig) (*ReminderUseCase, *captureNotifier) {
	t.Helper()

	learning := newLearningTest(t, words, nil)
	notifier := &captureNotifier{}
	return NewReminderUseCase(notifier, learning, 42, cfg, zap.NewNop()), notifier
}

func dueWords(n int, now time.Time) []*word.Word {
	words := seedWords(n)
	for _, w := range words {
		w.Stats.NextReviewDate = now.AddDate(0, 0, -1)
	}
	return words
}

func TestReminderUseCase_Check_SendsWhenDue(t *testing.T) {
	t.Parallel()

	// mid-afternoon, outside the default 22:00-08:00 quiet window
	now := time.Date(2025, 8, 1, 14, 0, 0, 0, time.Local)
	uc, notifier := newReminderTest(t, dueWords(3, now), nil)

	uc.check(now)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "3 words")
	assert.Contains(t, notifier.messages[0], "/quiz due")
}

func TestReminderUseCase_Check_NothingDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 14, 0, 0, 0, time.Local)
	words := seedWords(3)
	for _, w := range words {
		w.Stats.NextReviewDate = now.AddDate(0, 0, 7)
	}
	uc, notifier := newReminderTest(t, words, nil)

	uc.check(now)

	assert.Empty(t, notifier.messages)
}

func TestReminderUseCase_Check_QuietHours(t *testing.T) {
	t.Parallel()

	night := time.Date(2025, 8, 1, 23, 0, 0, 0, time.Local)
	uc, notifier := newReminderTest(t, dueWords(3, night), nil)

	uc.check(night)
	uc.check(night.Add(4 * time.Hour)) // 03:00, still quiet

	assert.Empty(t, notifier.messages)
}

func TestReminderUseCase_Check_MinInterval(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.Local)
	uc, notifier := newReminderTest(t, dueWords(3, now), nil)

	uc.check(now)
	uc.check(now.Add(time.Hour)) // within the 4h minimum interval
	uc.check(now.Add(5 * time.Hour))

	assert.Len(t, notifier.messages, 2)
}

func TestReminderUseCase_Check_DailyCap(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 8, 0, 0, 0, time.Local)
	cfg := &ReminderConfig{
		CheckInterval:       time.Minute,
		MinReminderInterval: time.Minute,
		QuietHoursStart:     23,
		QuietHoursEnd:       0,
		MaxRemindersPerDay:  2,
	}
	uc, notifier := newReminderTest(t, dueWords(3, now), cfg)

	for i := 0; i < 5; i++ {
		uc.check(now.Add(time.Duration(i) * time.Hour))
	}
	assert.Len(t, notifier.messages, 2, "daily cap holds")

	// the counter resets the next day
	uc.check(now.AddDate(0, 0, 1))
	assert.Len(t, notifier.messages, 3)
}

func TestReminderUseCase_IsQuietTime(t *testing.T) {
	t.Parallel()

	uc, _ := newReminderTest(t, nil, nil)

	at := func(hour int) time.Time {
		return time.Date(2025, 8, 1, hour, 30, 0, 0, time.Local)
	}

	assert.True(t, uc.isQuietTime(at(23)))
	assert.True(t, uc.isQuietTime(at(3)))
	assert.True(t, uc.isQuietTime(at(7)))
	assert.False(t, uc.isQuietTime(at(8)))
	assert.False(t, uc.isQuietTime(at(14)))
	assert.False(t, uc.isQuietTime(at(21)))
}

func TestReminderMessage_Singular(t *testing.T) {
	t.Parallel()

	morning := time.Date(2025, 8, 1, 9, 0, 0, 0, time.Local)
	msg := reminderMessage(1, morning)
	assert.Contains(t, msg, "Good morning")
	assert.Contains(t, msg, "1 word")
}
