package telegram

import (
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot wraps the Telegram bot API
type Bot struct {
	api *tgbotapi.BotAPI
	log *zap.Logger
}

// NewBot creates a new Telegram bot
func NewBot(token string, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	api.Debug = false
	log.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	return &Bot{api: api, log: log}, nil
}

// GetUpdatesChan returns a channel for receiving updates
func (b *Bot) GetUpdatesChan() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return b.api.GetUpdatesChan(u)
}

// SendMessage sends a text message
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendMessageWithMarkdown sends a message with markdown formatting
func (b *Bot) SendMessageWithMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(msg)
	return err
}

// SendMessageWithKeyboard sends a message with inline keyboard
func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

// AnswerCallbackQuery answers a callback query
func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.api.Send(callback)
	return err
}

// SendVoice sends synthesized audio as a voice note
func (b *Bot) SendVoice(chatID int64, name string, data []byte) error {
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := b.api.Send(voice)
	return err
}

// SendDocument sends a file as a document attachment
func (b *Bot) SendDocument(chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := b.api.Send(doc)
	return err
}

// DownloadDocument fetches an uploaded document's content by file id
func (b *Bot) DownloadDocument(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// SetupCommands configures the bot commands with BotFather
func (b *Bot) SetupCommands() error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Welcome message and command overview"},
		{Command: "add", Description: "Add a word: /add english - turkish"},
		{Command: "quiz", Description: "Start a quiz: /quiz [all|due|favorites|hard|category <name>]"},
		{Command: "retake", Description: "Retake the last finished quiz"},
		{Command: "words", Description: "List stored words"},
		{Command: "due", Description: "How many words are due for review"},
		{Command: "stats", Description: "Learning statistics and streak"},
		{Command: "export", Description: "Download the vocabulary as a file"},
		{Command: "cancel", Description: "Abandon the current quiz or input"},
		{Command: "help", Description: "Get help and instructions"},
	}

	setCommands := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(setCommands); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	b.log.Info("bot commands configured")
	return nil
}
