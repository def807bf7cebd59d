// Package bot implements the Telegram transport: update dispatch, command
// handlers, and rendering of search results with pagination controls. The
// core services never depend on this package.
package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/neronlabs/neron/internal/service"
)

// Telegram allows roughly one message per second per chat; burst absorbs
// short handler flurries.
const (
	sendRatePerChat  = rate.Limit(1)
	sendBurstPerChat = 5
)

// Bot wires Telegram updates to the message and search services.
type Bot struct {
	api       *tgbotapi.BotAPI
	messages  *service.MessageService
	search    *service.SearchService
	batchSize int
	maxLength int
	allowed   map[int64]struct{}
	logger    *slog.Logger

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

// Params configures the Bot. AllowedUsers empty means no restriction.
// Logger may be nil.
type Params struct {
	API          *tgbotapi.BotAPI
	Messages     *service.MessageService
	Search       *service.SearchService
	BatchSize    int
	MaxLength    int
	AllowedUsers []int64
	Logger       *slog.Logger
}

// New creates a Bot.
func New(p Params) *Bot {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowed := make(map[int64]struct{}, len(p.AllowedUsers))
	for _, id := range p.AllowedUsers {
		allowed[id] = struct{}{}
	}

	return &Bot{
		api:       p.API,
		messages:  p.Messages,
		search:    p.Search,
		batchSize: p.BatchSize,
		maxLength: p.MaxLength,
		allowed:   allowed,
		logger:    logger,
		limiters:  make(map[int64]*rate.Limiter),
	}
}

// Run polls Telegram for updates until ctx is cancelled. Each update is
// handled in its own goroutine, so a slow embedder or store call blocks that
// interaction only.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()

			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if !b.userAllowed(update.CallbackQuery.From.ID) {
			return
		}

		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		if !b.userAllowed(update.Message.From.ID) {
			b.logger.Warn("ignoring message from unauthorized user", "user_id", update.Message.From.ID)

			return
		}

		b.handleMessage(ctx, update.Message)
	}
}

// userAllowed reports whether the user may use the bot. An empty allowlist
// means no restriction.
func (b *Bot) userAllowed(userID int64) bool {
	if len(b.allowed) == 0 {
		return true
	}

	_, ok := b.allowed[userID]

	return ok
}

// limiter returns the per-chat send limiter, creating it on first use.
func (b *Bot) limiter(chatID int64) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.limiters[chatID]
	if !ok {
		l = rate.NewLimiter(sendRatePerChat, sendBurstPerChat)
		b.limiters[chatID] = l
	}

	return l
}

// send delivers a message through the per-chat rate limiter.
func (b *Bot) send(ctx context.Context, msg tgbotapi.Chattable, chatID int64) {
	if err := b.limiter(chatID).Wait(ctx); err != nil {
		return
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}

// reply sends plain text to the chat.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	b.send(ctx, tgbotapi.NewMessage(chatID, text), chatID)
}
