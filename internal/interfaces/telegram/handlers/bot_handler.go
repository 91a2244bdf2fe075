package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"turkish-learning-bot/internal/application/usecases"
	"turkish-learning-bot/internal/domain/quiz"
	"turkish-learning-bot/internal/infrastructure/telegram"
)

// Synthesizer produces listening-question audio. Nil disables the listening
// question type.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// pendingWord is an add waiting for duplicate confirmation.
type pendingWord struct {
	english string
	turkish string
}

// BotHandler handles Telegram bot interactions
type BotHandler struct {
	bot         *telegram.Bot
	learning    *usecases.LearningUseCase
	transfer    *usecases.TransferUseCase
	speaker     Synthesizer
	ownerChatID int64
	log         *zap.Logger

	// per-chat conversation state; the bot serves a single owner but the
	// maps keep chat flows independent anyway
	sessions     map[int64]*quiz.Quiz
	lastFinished map[int64]*quiz.Quiz
	pendingAdds  map[int64]pendingWord
}

// NewBotHandler creates a new bot handler
func NewBotHandler(
	bot *telegram.Bot,
	learning *usecases.LearningUseCase,
	transfer *usecases.TransferUseCase,
	speaker Synthesizer,
	ownerChatID int64,
	log *zap.Logger,
) *BotHandler {
	return &BotHandler{
		bot:          bot,
		learning:     learning,
		transfer:     transfer,
		speaker:      speaker,
		ownerChatID:  ownerChatID,
		log:          log,
		sessions:     make(map[int64]*quiz.Quiz),
		lastFinished: make(map[int64]*quiz.Quiz),
		pendingAdds:  make(map[int64]pendingWord),
	}
}

// Start starts the bot and handles updates. Updates are processed
// sequentially: the whole state tree is one mutable aggregate and a single
// logical actor mutates it at a time.
func (h *BotHandler) Start(ctx context.Context) error {
	updates := h.bot.GetUpdatesChan()

	h.log.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			h.log.Info("bot stopping")
			return nil
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *BotHandler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		if !h.allowed(update.Message.Chat.ID) {
			return
		}
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		if !h.allowed(update.CallbackQuery.Message.Chat.ID) {
			return
		}
		h.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// allowed restricts the bot to its owner chat when one is configured.
func (h *BotHandler) allowed(chatID int64) bool {
	return h.ownerChatID == 0 || chatID == h.ownerChatID
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.Document != nil {
		h.handleImportDocument(ctx, message)
		return
	}

	switch message.Command() {
	case "start", "help":
		h.handleHelp(chatID)
	case "add":
		h.handleAdd(chatID, message.CommandArguments())
	case "quiz":
		h.handleQuizStart(ctx, chatID, message.CommandArguments())
	case "retake":
		h.handleRetake(ctx, chatID)
	case "words":
		h.handleWords(chatID, message.CommandArguments())
	case "due":
		h.handleDue(chatID)
	case "stats":
		h.handleStats(chatID)
	case "export":
		h.handleExport(ctx, chatID)
	case "cancel":
		h.handleCancel(chatID)
	case "":
		// a plain message is an answer when a quiz is running
		if h.sessions[chatID] != nil {
			h.handleAnswer(ctx, chatID, message.Text)
		}
	default:
		h.reply(chatID, "Unknown command. Use /help for the command list.")
	}
}

func (h *BotHandler) handleCallbackQuery(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	if err := h.bot.AnswerCallbackQuery(cb.ID, ""); err != nil {
		h.log.Warn("failed to answer callback", zap.Error(err))
	}

	h.dispatchCallback(ctx, chatID, cb.Data)
}

func (h *BotHandler) reply(chatID int64, text string) {
	if err := h.bot.SendMessageWithMarkdown(chatID, text); err != nil {
		h.log.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *BotHandler) handleHelp(chatID int64) {
	h.reply(chatID, `*Turkish vocabulary trainer*

/add english - turkish — store a new word
/quiz [all|due|favorites|hard|category <name>] [types...] — start a quiz
/retake — retake the last finished quiz with the same questions
/words [page] — list stored words
/due — words due for review
/stats — totals, hard words and your streak
/export — download your vocabulary as a JSON file
/cancel — abandon the current quiz or pending input

Send an exported JSON file to import it (caption `+"`replace`"+` to overwrite everything).`)
}

func (h *BotHandler) handleCancel(chatID int64) {
	delete(h.sessions, chatID)
	delete(h.pendingAdds, chatID)
	h.reply(chatID, "Cancelled.")
}
