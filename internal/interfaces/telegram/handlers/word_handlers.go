package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"turkish-learning-bot/internal/application/usecases"
)

const wordsPerPage = 10

// handleAdd parses "english - turkish" and stores the word, asking for
// confirmation when a likely duplicate already exists.
func (h *BotHandler) handleAdd(chatID int64, args string) {
	english, turkish, ok := splitAddArgs(args)
	if !ok {
		h.reply(chatID, "Usage: /add english - turkish\nExample: /add apple - elma")
		return
	}

	if dup := h.learning.FindDuplicate(english, turkish); dup != nil {
		h.pendingAdds[chatID] = pendingWord{english: english, turkish: turkish}
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Add anyway", "add:confirm"),
				tgbotapi.NewInlineKeyboardButtonData("Cancel", "add:cancel"),
			),
		)
		text := fmt.Sprintf("You already have *%s — %s*. Add it again?", dup.English, dup.Turkish)
		if err := h.bot.SendMessageWithKeyboard(chatID, text, keyboard); err != nil {
			h.log.Warn("failed to send duplicate prompt", zap.Error(err))
		}
		return
	}

	h.addWord(chatID, english, turkish)
}

func splitAddArgs(args string) (english, turkish string, ok bool) {
	parts := strings.SplitN(args, " - ", 2)
	if len(parts) != 2 {
		parts = strings.SplitN(args, "-", 2)
	}
	if len(parts) != 2 {
		return "", "", false
	}
	english = strings.TrimSpace(parts[0])
	turkish = strings.TrimSpace(parts[1])
	return english, turkish, english != "" && turkish != ""
}

func (h *BotHandler) addWord(chatID int64, english, turkish string) {
	w, err := h.learning.AddWord(usecases.WordInput{English: english, Turkish: turkish})
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Could not add the word: %v", err))
		return
	}
	h.reply(chatID, fmt.Sprintf("Added *%s — %s* (level %s).", w.English, w.Turkish, w.Level))
}

func (h *BotHandler) dispatchCallback(ctx context.Context, chatID int64, data string) {
	switch {
	case strings.HasPrefix(data, "opt:"):
		h.handleOptionCallback(ctx, chatID, data)
	case data == "add:confirm":
		pending, ok := h.pendingAdds[chatID]
		if !ok {
			return
		}
		delete(h.pendingAdds, chatID)
		h.addWord(chatID, pending.english, pending.turkish)
	case data == "add:cancel":
		delete(h.pendingAdds, chatID)
		h.reply(chatID, "Not added.")
	case strings.HasPrefix(data, "words:"):
		page, err := strconv.Atoi(strings.TrimPrefix(data, "words:"))
		if err != nil {
			return
		}
		h.sendWordsPage(chatID, page)
	}
}

// handleWords lists one page of the collection, newest last.
func (h *BotHandler) handleWords(chatID int64, args string) {
	page := 1
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 {
		page = n
	}
	h.sendWordsPage(chatID, page)
}

func (h *BotHandler) sendWordsPage(chatID int64, page int) {
	words, total := h.learning.Words((page-1)*wordsPerPage, wordsPerPage)
	if total == 0 {
		h.reply(chatID, "No words yet. Add one with /add.")
		return
	}
	if len(words) == 0 {
		h.reply(chatID, fmt.Sprintf("Page %d is empty. You have %d words.", page, total))
		return
	}

	pages := (total + wordsPerPage - 1) / wordsPerPage
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Words — page %d/%d (%d total)*\n\n", page, pages, total)
	for i, w := range words {
		marker := ""
		if w.Favorite {
			marker = " ⭐"
		}
		if w.Stats.Learned {
			marker += " ✅"
		}
		fmt.Fprintf(&sb, "%d. *%s* — %s (%s)%s\n", (page-1)*wordsPerPage+i+1, w.English, w.Turkish, w.Level, marker)
	}

	if pages <= 1 {
		h.reply(chatID, sb.String())
		return
	}
	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("« Prev", fmt.Sprintf("words:%d", page-1)))
	}
	if page < pages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next »", fmt.Sprintf("words:%d", page+1)))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
	if err := h.bot.SendMessageWithKeyboard(chatID, sb.String(), keyboard); err != nil {
		h.log.Warn("failed to send word list", zap.Error(err))
	}
}

func (h *BotHandler) handleDue(chatID int64) {
	due := h.learning.DueCount(time.Now())
	if due == 0 {
		h.reply(chatID, "Nothing due for review. 🎉")
		return
	}
	h.reply(chatID, fmt.Sprintf("*%d word(s)* due for review. Start with /quiz due.", due))
}

func (h *BotHandler) handleStats(chatID int64) {
	s := h.learning.Stats()
	h.reply(chatID, fmt.Sprintf(
		`*Your progress*

Words: *%d*
Learned: *%d*
Favorites: *%d*
Hard: *%d*
Due for review: *%d*
Streak: *%d day(s)* (best %d)`,
		s.TotalWords, s.Learned, s.Favorites, s.Hard, s.Due,
		s.Streak.Current, s.Streak.Best))
}

func (h *BotHandler) handleExport(ctx context.Context, chatID int64) {
	filename, data, err := h.transfer.Export(ctx, time.Now())
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Export failed: %v", err))
		return
	}
	if err := h.bot.SendDocument(chatID, filename, data); err != nil {
		h.log.Warn("failed to send export", zap.Error(err))
		h.reply(chatID, "Could not deliver the export file.")
	}
}

// handleImportDocument ingests an uploaded export file. A "replace" caption
// swaps the whole collection; the default merges and skips duplicates.
func (h *BotHandler) handleImportDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	data, err := h.bot.DownloadDocument(message.Document.FileID)
	if err != nil {
		h.log.Warn("failed to download import", zap.Error(err))
		h.reply(chatID, "Could not download the file.")
		return
	}

	if strings.EqualFold(strings.TrimSpace(message.Caption), "replace") {
		n, err := h.transfer.ImportReplace(ctx, data)
		if err != nil {
			h.replyImportError(chatID, err)
			return
		}
		h.reply(chatID, fmt.Sprintf("Replaced your collection: *%d words* imported.", n))
		return
	}

	stats, err := h.transfer.ImportMerge(ctx, data)
	if err != nil {
		h.replyImportError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Import done: *%d merged*, %d skipped as duplicates.", stats.Merged, stats.Skipped))
}

func (h *BotHandler) replyImportError(chatID int64, err error) {
	if errors.Is(err, usecases.ErrMalformedImport) {
		h.reply(chatID, "That file does not look like a vocabulary export.")
		return
	}
	h.reply(chatID, fmt.Sprintf("Import failed: %v", err))
}
