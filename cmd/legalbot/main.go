// ABOUTME: Main entry point for the LegalBot Telegram assistant
// ABOUTME: Wires config, knowledge base, OpenAI client, stores, and the bot
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"legalbot/internal/answer"
	"legalbot/internal/audit"
	"legalbot/internal/bot"
	"legalbot/internal/config"
	"legalbot/internal/consent"
	"legalbot/internal/history"
	"legalbot/internal/knowledge"
	"legalbot/internal/llm"
	"legalbot/internal/logging"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := logging.New(cfg.Debug)
	defer logger.Sync() //nolint:errcheck

	// An invalid corpus must refuse to serve traffic, so this is fatal.
	base, err := knowledge.Load(cfg.KnowledgePath)
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}
	logger.Info("knowledge base loaded",
		zap.String("path", cfg.KnowledgePath),
		zap.Int("records", base.Len()))

	client, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.ChatModel, cfg.Temperature, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("creating OpenAI client: %w", err)
	}

	composer := answer.New(base, client, cfg.SystemPrompt, cfg.TopK, cfg.HistoryLimit, logger)

	consents, err := consent.Open(cfg.ConsentPath)
	if err != nil {
		return fmt.Errorf("opening consent store: %w", err)
	}

	interactions, err := audit.NewInteractionLogger(cfg.InteractionLogPath)
	if err != nil {
		return fmt.Errorf("creating interaction logger: %w", err)
	}
	consultations, err := audit.NewConsultationLogger(cfg.ConsultationLogPath)
	if err != nil {
		return fmt.Errorf("creating consultation logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("connecting to Telegram: %w", err)
	}

	b := bot.New(api, bot.Deps{
		Composer:      composer,
		History:       history.NewStore(historyStoreLimit(cfg.HistoryLimit)),
		Consents:      consents,
		Interactions:  interactions,
		Consultations: consultations,
		Model:         client.Model(),
		PolicyURL:     cfg.PrivacyPolicyURL,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return b.Run(ctx)
}

// historyStoreLimit sizes the in-memory history. A negative composer
// limit means "no truncation at compose time", but the store itself
// still needs a bound.
func historyStoreLimit(historyLimit int) int {
	if historyLimit > 0 {
		return historyLimit
	}
	return 20
}
