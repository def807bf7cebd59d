package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/neronlabs/neron/internal/boterrors"
	"github.com/neronlabs/neron/internal/presenter"
	"github.com/neronlabs/neron/internal/service"
)

const welcomeText = `Welcome! I'm your personal memory bot.

Send me text or voice messages, and I'll store them with embeddings for future retrieval.

Commands:
/start - Show this welcome message
/count - Show total number of stored messages
/search <query> - Find stored messages by meaning`

// Callback data prefixes for pagination controls.
const (
	callbackMore = "more"
	callbackFull = "full"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case msg.Voice != nil:
		b.handleVoice(ctx, msg, msg.Voice.FileID, ".ogg")
	case msg.Audio != nil:
		b.handleVoice(ctx, msg, msg.Audio.FileID, audioExtension(msg.Audio.MimeType))
	case msg.Text != "":
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.reply(ctx, chatID, welcomeText)
	case "count":
		count, err := b.messages.Count(ctx)
		if err != nil {
			b.reply(ctx, chatID, "Sorry, an error occurred while fetching the count.")

			return
		}

		b.reply(ctx, chatID, fmt.Sprintf("Total messages stored: %d", count))
	case "search":
		b.handleSearch(ctx, msg)
	default:
		b.reply(ctx, chatID, "Unknown command. Try /start.")
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	ts := msg.Time()

	if _, err := b.messages.LogText(ctx, msg.Text, &ts); err != nil {
		b.reply(ctx, msg.Chat.ID, "Sorry, an error occurred while processing your message. Please try again.")

		return
	}

	b.reply(ctx, msg.Chat.ID, "✅ Logged")
}

func (b *Bot) handleVoice(ctx context.Context, msg *tgbotapi.Message, fileID, extension string) {
	chatID := msg.Chat.ID
	ts := msg.Time()

	path, err := b.downloadFile(ctx, fileID, extension)
	if err != nil {
		b.logger.Error("voice download failed", "error", err)
		b.reply(ctx, chatID, "Sorry, an error occurred while processing your voice message. Please try again.")

		return
	}

	defer func() {
		if err := os.Remove(path); err != nil {
			b.logger.Warn("failed to delete temporary audio file", "path", path, "error", err)
		}
	}()

	if _, _, err := b.messages.LogVoice(ctx, path, &ts); err != nil {
		if errors.Is(err, service.ErrTranscriptionUnavailable) {
			b.reply(ctx, chatID, "Voice notes are not enabled on this bot.")

			return
		}

		b.reply(ctx, chatID, "Sorry, an error occurred while processing your voice message. Please try again.")

		return
	}

	b.reply(ctx, chatID, "✅ Logged")
}

func (b *Bot) handleSearch(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	results, err := b.search.Search(ctx, msg.From.ID, msg.CommandArguments())
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			b.reply(ctx, chatID, "Usage: /search <query>")

			return
		}

		b.reply(ctx, chatID, "Sorry, the search failed. Please try again.")

		return
	}

	if len(results) == 0 {
		b.reply(ctx, chatID, "No matches found.")

		return
	}

	b.sendBatch(ctx, chatID, msg.From.ID, 0)
}

// sendBatch renders one page of the user's cached search session with its
// pagination controls. The session is the single slicing authority; this
// never re-queries the store.
func (b *Bot) sendBatch(ctx context.Context, chatID, userID int64, offset int) {
	page, hasMore, err := b.search.Batch(userID, offset, b.batchSize)
	if err != nil || len(page) == 0 {
		b.reply(ctx, chatID, "No more results. Start a new /search.")

		return
	}

	batch := presenter.FormatPage(page, offset, hasMore, b.maxLength)

	reply := tgbotapi.NewMessage(chatID, batch.DisplayText)

	var buttons []tgbotapi.InlineKeyboardButton

	for _, item := range batch.Items {
		if item.Truncated {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Full text #%d", item.Index+1),
				fmt.Sprintf("%s:%d", callbackFull, item.Index),
			))
		}
	}

	if batch.HasMore {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			"Show more",
			fmt.Sprintf("%s:%d", callbackMore, offset+b.batchSize),
		))
	}

	if len(buttons) > 0 {
		reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
	}

	b.send(ctx, reply, chatID)
}

// handleCallback re-enters the cached session on "show more" / "show full"
// button presses. No store query happens here.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Acknowledge first so the button stops spinning.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("callback ack failed", "error", err)
	}

	if cq.Message == nil {
		return
	}

	chatID := cq.Message.Chat.ID
	userID := cq.From.ID

	action, arg, ok := strings.Cut(cq.Data, ":")
	if !ok {
		return
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return
	}

	switch action {
	case callbackMore:
		b.sendBatch(ctx, chatID, userID, n)
	case callbackFull:
		result, err := b.search.Result(userID, n)
		if err != nil {
			if errors.Is(err, boterrors.ErrNotFound) {
				b.reply(ctx, chatID, "That result is gone. Start a new /search.")

				return
			}

			b.reply(ctx, chatID, "Sorry, something went wrong.")

			return
		}

		b.reply(ctx, chatID, result.Text)
	}
}

// downloadFile fetches a Telegram file to a uniquely named temp file and
// returns its path. The caller removes the file when done.
func (b *Bot) downloadFile(ctx context.Context, fileID, extension string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file info: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	path := fmt.Sprintf("%s/voice_%s%s", os.TempDir(), uuid.NewString(), extension)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)

		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(path)

		return "", fmt.Errorf("close temp file: %w", err)
	}

	return path, nil
}

// audioExtension maps an audio MIME type to a file extension for the temp file.
func audioExtension(mimeType string) string {
	if mimeType == "" {
		return ".mp3"
	}

	parts := strings.Split(mimeType, "/")

	return "." + parts[len(parts)-1]
}
