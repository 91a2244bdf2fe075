package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"turkish-learning-bot/internal/domain/quiz"
)

const defaultQuizWordCount = 10

// handleQuizStart parses "/quiz [source] [types...]" and opens a session.
func (h *BotHandler) handleQuizStart(ctx context.Context, chatID int64, args string) {
	if h.sessions[chatID] != nil {
		h.reply(chatID, "A quiz is already running. Answer it or /cancel first.")
		return
	}

	src, types, err := parseQuizArgs(args, h.speaker != nil)
	if err != nil {
		h.reply(chatID, err.Error())
		return
	}

	q, err := h.learning.StartQuiz(src, types, defaultQuizWordCount, true)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Could not start the quiz: %v", err))
		return
	}

	h.sessions[chatID] = q
	_, total := q.Progress()
	h.reply(chatID, fmt.Sprintf("Quiz started: *%d questions*. /cancel to abandon.", total))
	h.askCurrent(ctx, chatID)
}

func parseQuizArgs(args string, listeningAvailable bool) (quiz.Source, []quiz.QuestionType, error) {
	fields := strings.Fields(strings.ToLower(args))

	src := quiz.Source{Kind: quiz.SourceAll}
	rest := fields
	if len(fields) > 0 {
		switch fields[0] {
		case "all", "due", "favorites", "hard":
			src.Kind = quiz.SourceKind(fields[0])
			rest = fields[1:]
		case "category":
			if len(fields) < 2 {
				return quiz.Source{}, nil, fmt.Errorf("usage: /quiz category <name>")
			}
			src.Kind = quiz.SourceCategory
			src.Category = fields[1]
			rest = fields[2:]
		}
	}

	var types []quiz.QuestionType
	for _, f := range rest {
		switch quiz.QuestionType(f) {
		case quiz.QuestionDirect, quiz.QuestionReverse, quiz.QuestionWriting:
			types = append(types, quiz.QuestionType(f))
		case quiz.QuestionListening:
			if !listeningAvailable {
				return quiz.Source{}, nil, fmt.Errorf("listening questions need text-to-speech enabled")
			}
			types = append(types, quiz.QuestionListening)
		default:
			return quiz.Source{}, nil, fmt.Errorf("unknown question type %q", f)
		}
	}
	if len(types) == 0 {
		types = []quiz.QuestionType{quiz.QuestionDirect, quiz.QuestionReverse}
	}

	return src, types, nil
}

// askCurrent presents the question at the session cursor.
func (h *BotHandler) askCurrent(ctx context.Context, chatID int64) {
	q := h.sessions[chatID]
	if q == nil {
		return
	}
	cur := q.Current()
	if cur == nil {
		return
	}

	answered, total := q.Progress()
	header := fmt.Sprintf("*Question %d/%d*", answered+1, total)

	switch cur.Type {
	case quiz.QuestionDirect:
		h.askChoice(chatID, fmt.Sprintf("%s\n\nTranslate to Turkish:\n*%s*", header, cur.Prompt), cur.Options)
	case quiz.QuestionReverse:
		h.askChoice(chatID, fmt.Sprintf("%s\n\nWhich English word means:\n*%s*", header, cur.Prompt), cur.Options)
	case quiz.QuestionWriting:
		pool := strings.Join(cur.LetterPool, " ")
		h.reply(chatID, fmt.Sprintf("%s\n\nComplete the sentence:\n_%s_\n\nLetters: `%s`\n\nType the missing word.", header, cur.Prompt, pool))
	case quiz.QuestionListening:
		h.reply(chatID, fmt.Sprintf("%s\n\nListen and type the word you hear.", header))
		h.sendListeningAudio(ctx, chatID, cur.Prompt)
	}
}

func (h *BotHandler) askChoice(chatID int64, text string, options []string) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for i, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt, fmt.Sprintf("opt:%d", i)),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	if err := h.bot.SendMessageWithKeyboard(chatID, text, keyboard); err != nil {
		h.log.Warn("failed to send question", zap.Error(err))
	}
}

// sendListeningAudio synthesizes and delivers the audio without blocking the
// update loop; the question stands regardless of playback completion.
func (h *BotHandler) sendListeningAudio(ctx context.Context, chatID int64, text string) {
	go func() {
		audio, err := h.speaker.Synthesize(ctx, text)
		if err != nil {
			h.log.Warn("speech synthesis failed", zap.Error(err))
			h.reply(chatID, "Audio is unavailable right now; /cancel if you want to stop.")
			return
		}
		if err := h.bot.SendVoice(chatID, "word.mp3", audio); err != nil {
			h.log.Warn("failed to send voice note", zap.Error(err))
		}
	}()
}

// handleAnswer processes a typed answer for writing/listening questions.
func (h *BotHandler) handleAnswer(ctx context.Context, chatID int64, text string) {
	h.submit(ctx, chatID, text)
}

// handleOptionCallback processes a tapped choice button.
func (h *BotHandler) handleOptionCallback(ctx context.Context, chatID int64, data string) {
	q := h.sessions[chatID]
	if q == nil {
		return
	}
	cur := q.Current()
	if cur == nil {
		return
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(data, "opt:"))
	if err != nil || idx < 0 || idx >= len(cur.Options) {
		return
	}
	h.submit(ctx, chatID, cur.Options[idx])
}

func (h *BotHandler) submit(ctx context.Context, chatID int64, rawInput string) {
	q := h.sessions[chatID]
	if q == nil {
		return
	}

	res, err := h.learning.SubmitAnswer(q, rawInput)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Could not record the answer: %v", err))
		return
	}

	if res.Correct {
		h.reply(chatID, "✅ Correct!")
	} else {
		h.reply(chatID, fmt.Sprintf("❌ Wrong. The answer is *%s*.", res.CorrectAnswer))
	}

	if res.Done {
		h.finishQuiz(ctx, chatID)
		return
	}
	h.askCurrent(ctx, chatID)
}

func (h *BotHandler) finishQuiz(ctx context.Context, chatID int64) {
	q := h.sessions[chatID]
	delete(h.sessions, chatID)

	entry, err := h.learning.FinishQuiz(ctx, q)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Could not finish the quiz: %v", err))
		return
	}
	h.lastFinished[chatID] = q

	stats := h.learning.Stats()
	h.reply(chatID, fmt.Sprintf(
		"*Quiz complete!*\n\nScore: *%d/%d*\nStreak: *%d day(s)* (best %d)\n\n/retake to try the same questions again.",
		entry.Score, entry.Total, stats.Streak.Current, stats.Streak.Best))
}

// handleRetake replays the last finished quiz with identical questions.
func (h *BotHandler) handleRetake(ctx context.Context, chatID int64) {
	if h.sessions[chatID] != nil {
		h.reply(chatID, "A quiz is already running. Answer it or /cancel first.")
		return
	}
	last := h.lastFinished[chatID]
	if last == nil {
		h.reply(chatID, "No finished quiz to retake. Start one with /quiz.")
		return
	}

	if err := h.learning.RetakeQuiz(last); err != nil {
		h.reply(chatID, fmt.Sprintf("Could not retake the quiz: %v", err))
		return
	}
	delete(h.lastFinished, chatID)
	h.sessions[chatID] = last
	h.reply(chatID, "Retaking the same questions. Good luck!")
	h.askCurrent(ctx, chatID)
}
