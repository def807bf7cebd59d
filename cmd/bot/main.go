package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"

	"github.com/neronlabs/neron/internal/bot"
	"github.com/neronlabs/neron/internal/config"
	"github.com/neronlabs/neron/internal/embeddings"
	"github.com/neronlabs/neron/internal/observability"
	"github.com/neronlabs/neron/internal/repository"
	"github.com/neronlabs/neron/internal/service"
	"github.com/neronlabs/neron/internal/transcribe"
	"github.com/neronlabs/neron/pkg/database"
)

// queryEmbeddingCacheSize bounds the LRU of query embeddings.
const queryEmbeddingCacheSize = 256

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	observability.SetupLogging(cfg.LogLevel)

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, &database.PoolConfig{
		MinConns: int32(cfg.DBMinConnections),
		MaxConns: int32(cfg.DBMaxConnections),
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	messagesRepo := repository.NewMessagesRepository(db, cfg.EmbeddingDimension)
	if err := messagesRepo.Setup(ctx); err != nil {
		slog.Error("Failed to set up database schema", "error", err)
		os.Exit(1)
	}

	var embedder embeddings.Client

	switch cfg.EmbeddingProvider {
	case config.ProviderVoyage:
		embedder = embeddings.NewVoyageClient(cfg.VoyageAPIKey)
		slog.Info("Embeddings enabled", "provider", "voyage", "model", embeddings.DefaultVoyageModel)
	case config.ProviderOpenAI:
		embedder = embeddings.NewOpenAIClient(cfg.OpenAIAPIKey)
		slog.Info("Embeddings enabled", "provider", "openai", "model", "text-embedding-3-small")
	}

	var transcriber transcribe.Transcriber
	if cfg.OpenAIAPIKey != "" {
		transcriber = transcribe.NewWhisperClient(cfg.OpenAIAPIKey)
		slog.Info("Voice transcription enabled", "model", "whisper-1")
	} else {
		slog.Info("Voice transcription disabled (OPENAI_API_KEY not set)")
	}

	queryCache, err := lru.New[string, []float32](queryEmbeddingCacheSize)
	if err != nil {
		slog.Error("Failed to create query embedding cache", "error", err)
		os.Exit(1)
	}

	// The global meter provider defaults to noop; an exporter can be wired
	// there without touching the services.
	metrics, err := observability.NewBotMetrics(otel.Meter("neron"))
	if err != nil {
		slog.Error("Failed to create metrics", "error", err)
		os.Exit(1)
	}

	messageService := service.NewMessageService(service.MessageServiceParams{
		Store:       messagesRepo,
		Embedder:    embedder,
		Transcriber: transcriber,
		Metrics:     metrics,
	})

	searchService := service.NewSearchService(service.SearchServiceParams{
		Store:      messagesRepo,
		Embedder:   embedder,
		Overfetch:  cfg.SearchOverfetch,
		Threshold:  cfg.SimilarityThreshold,
		QueryCache: queryCache,
		Metrics:    metrics,
	})

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("Failed to create Telegram client", "error", err)
		os.Exit(1)
	}

	b := bot.New(bot.Params{
		API:          api,
		Messages:     messageService,
		Search:       searchService,
		BatchSize:    cfg.SearchBatchSize,
		MaxLength:    cfg.ResultMaxLength,
		AllowedUsers: cfg.AllowedUsers,
	})

	b.Run(ctx)

	slog.Info("Bot stopped")
}
