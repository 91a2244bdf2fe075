package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"turkish-learning-bot/internal/application/usecases"
	"turkish-learning-bot/internal/config"
	"turkish-learning-bot/internal/domain/progress"
	"turkish-learning-bot/internal/domain/quiz"
	"turkish-learning-bot/internal/domain/review"
	"turkish-learning-bot/internal/domain/state"
	"turkish-learning-bot/internal/domain/word"
	"turkish-learning-bot/internal/infrastructure/persistence"
	"turkish-learning-bot/internal/infrastructure/telegram"
	"turkish-learning-bot/internal/infrastructure/tts"
	"turkish-learning-bot/internal/interfaces/telegram/handlers"
)

func main() {
	// the .env file is a development convenience; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := persistence.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DB.Path), zap.Error(err))
	}
	defer db.Close()

	store := persistence.NewBlobStore(db)

	st, err := loadState(context.Background(), store)
	if err != nil {
		logger.Fatal("failed to load state", zap.Error(err))
	}
	logger.Info("state loaded",
		zap.Int("words", len(st.Words)),
		zap.Int("history", len(st.History)),
		zap.Int("schema_version", st.Meta.Version))

	lock := &usecases.AppLock{}
	repo := word.NewRepository(st.Words, st.Categories)
	scheduler := review.NewScheduler()
	engine := quiz.NewEngine(repo, scheduler, nil)
	tracker := progress.NewTracker(st.Streak)
	history := quiz.NewHistory(st.History)

	// the encode closure takes the lock itself, so Flush must never be
	// called while holding it
	encode := func() ([]byte, error) {
		lock.Lock()
		defer lock.Unlock()
		return state.Snapshot(repo, history, tracker).Encode(time.Now())
	}
	writer := persistence.NewSnapshotWriter(store, encode, state.StateKey, state.BackupKey, cfg.Autosave.QuietPeriod, logger)

	learning := usecases.NewLearningUseCase(lock, repo, scheduler, engine, tracker, history, writer, logger)
	transfer := usecases.NewTransferUseCase(lock, repo, history, tracker, writer, logger)

	bot, err := telegram.NewBot(cfg.BotToken, logger)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}
	if err := bot.SetupCommands(); err != nil {
		logger.Warn("failed to register command menu", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var speaker handlers.Synthesizer
	if cfg.TTS.Enabled {
		s, err := tts.NewSpeaker(ctx)
		if err != nil {
			logger.Warn("text-to-speech unavailable, listening questions disabled", zap.Error(err))
		} else {
			defer s.Close()
			speaker = s
		}
	}

	if cfg.Reminder.Enabled && cfg.OwnerChatID != 0 {
		reminder := usecases.NewReminderUseCase(bot, learning, cfg.OwnerChatID, &usecases.ReminderConfig{
			CheckInterval:       cfg.Reminder.CheckInterval,
			MinReminderInterval: cfg.Reminder.MinInterval,
			QuietHoursStart:     cfg.Reminder.QuietStartHour,
			QuietHoursEnd:       cfg.Reminder.QuietEndHour,
			MaxRemindersPerDay:  cfg.Reminder.MaxPerDay,
		}, logger)
		go reminder.Start(ctx)
	}

	handler := handlers.NewBotHandler(bot, learning, transfer, speaker, cfg.OwnerChatID, logger)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logger.Info("shutting down")
		cancel()
	}()

	if err := handler.Start(ctx); err != nil {
		logger.Error("bot stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := writer.Close(shutdownCtx); err != nil {
		logger.Error("failed to persist state on shutdown", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func loadState(ctx context.Context, store *persistence.BlobStore) (*state.AppState, error) {
	data, err := store.Get(ctx, state.StateKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return state.Default(), nil
	}
	return state.Decode(data)
}
