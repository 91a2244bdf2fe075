package usecases

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ReminderConfig holds configuration for the review reminder service.
type ReminderConfig struct {
	// How often to poll the due/activity queries
	CheckInterval time.Duration
	// Minimum time between reminders
	MinReminderInterval time.Duration
	// Hours of day when reminders are suppressed (24-hour format)
	QuietHoursStart int
	QuietHoursEnd   int
	// Maximum reminders per day
	MaxRemindersPerDay int
}

// DefaultReminderConfig returns sensible defaults for reminders.
func DefaultReminderConfig() *ReminderConfig {
	return &ReminderConfig{
		CheckInterval:       30 * time.Minute,
		MinReminderInterval: 4 * time.Hour,
		QuietHoursStart:     22,
		QuietHoursEnd:       8,
		MaxRemindersPerDay:  3,
	}
}

// Notifier delivers reminder messages.
type Notifier interface {
	SendMessageWithMarkdown(chatID int64, text string) error
}

// ReminderUseCase nudges the owner when words are due for review and no
// activity has been recorded yet today. It only polls the engine's due and
// activity queries; scheduling stays outside the learning core.
type ReminderUseCase struct {
	notifier Notifier
	learning *LearningUseCase
	chatID   int64
	config   *ReminderConfig
	log      *zap.Logger

	lastSent       time.Time
	remindersToday int
	lastCheckDate  time.Time
}

// NewReminderUseCase creates a new reminder use case.
func NewReminderUseCase(notifier Notifier, learning *LearningUseCase, chatID int64, config *ReminderConfig, log *zap.Logger) *ReminderUseCase {
	if config == nil {
		config = DefaultReminderConfig()
	}
	return &ReminderUseCase{
		notifier: notifier,
		learning: learning,
		chatID:   chatID,
		config:   config,
		log:      log,
	}
}

// Start begins the background reminder loop.
func (uc *ReminderUseCase) Start(ctx context.Context) {
	uc.log.Info("starting reminder service", zap.Duration("check_interval", uc.config.CheckInterval))

	ticker := time.NewTicker(uc.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.log.Info("reminder service stopping")
			return
		case <-ticker.C:
			uc.check(time.Now())
		}
	}
}

func (uc *ReminderUseCase) check(now time.Time) {
	// reset the daily counter on a new day
	if !sameDay(uc.lastCheckDate, now) {
		uc.remindersToday = 0
		uc.lastCheckDate = now
	}

	if !uc.shouldRemind(now) {
		return
	}

	due := uc.learning.DueCount(now)
	if err := uc.notifier.SendMessageWithMarkdown(uc.chatID, reminderMessage(due, now)); err != nil {
		uc.log.Warn("failed to send reminder", zap.Error(err))
		return
	}

	uc.lastSent = now
	uc.remindersToday++
	uc.log.Info("reminder sent", zap.Int("due_words", due))
}

func (uc *ReminderUseCase) shouldRemind(now time.Time) bool {
	if uc.isQuietTime(now) {
		return false
	}
	if uc.remindersToday >= uc.config.MaxRemindersPerDay {
		return false
	}
	if now.Sub(uc.lastSent) < uc.config.MinReminderInterval {
		return false
	}
	// skip when today's practice already happened
	if uc.learning.ActiveToday(now) {
		return false
	}
	return uc.learning.DueCount(now) > 0
}

func (uc *ReminderUseCase) isQuietTime(t time.Time) bool {
	hour := t.Hour()
	start := uc.config.QuietHoursStart
	end := uc.config.QuietHoursEnd

	if start <= end {
		return hour >= start && hour < end
	}
	// quiet hours cross midnight, e.g. 22:00 to 08:00
	return hour >= start || hour < end
}

func reminderMessage(due int, now time.Time) string {
	hour := now.Hour()
	var greeting string
	switch {
	case hour < 12:
		greeting = "Good morning"
	case hour < 17:
		greeting = "Good afternoon"
	default:
		greeting = "Good evening"
	}

	if due == 1 {
		return fmt.Sprintf("%s! You have *1 word* due for review. A quick quiz keeps the streak alive — /quiz due", greeting)
	}
	return fmt.Sprintf("%s! You have *%d words* due for review. A quick quiz keeps the streak alive — /quiz due", greeting, due)
}

func sameDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
