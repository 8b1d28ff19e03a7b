package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ecospirit/greenmap/internal/config"
	"github.com/ecospirit/greenmap/internal/conversation"
	"github.com/ecospirit/greenmap/internal/core"
	"github.com/ecospirit/greenmap/internal/core/analysis"
	"github.com/ecospirit/greenmap/internal/dataset"
	"github.com/ecospirit/greenmap/internal/driver"
	"github.com/ecospirit/greenmap/internal/llm"
)

// Build wires the stores and model clients described by cfg. The returned
// cleanup closes them.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, func(), error) {
	objects, err := driver.Open(ctx, cfg.Dataset, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset backend: %w", err)
	}
	buildings := dataset.NewStore(objects, cfg.Dataset.Key, log.Named("dataset"))

	chats, err := conversation.Open(cfg.Database, log.Named("conversation"))
	if err != nil {
		_ = objects.Close(ctx)
		return nil, nil, err
	}

	cleanup := func() {
		if err := chats.Close(); err != nil {
			log.Warn("failed to close conversation store", zap.Error(err))
		}
		if err := objects.Close(context.Background()); err != nil {
			log.Warn("failed to close dataset backend", zap.Error(err))
		}
	}

	chatModel, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize chat model: %w", err)
	}
	cleanup = withClose(cleanup, chatModel, log)
	log.Info("chat model ready", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	analysisModel, err := llm.NewClient(ctx, cfg.Analysis)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn("analysis model not configured, location analysis will serve the fallback report", zap.Error(err))
		analysisModel = nil
	case err != nil:
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize analysis model: %w", err)
	default:
		cleanup = withClose(cleanup, analysisModel, log)
	}

	advisor := core.NewAdvisor(chats, buildings, chatModel, log.Named("advisor"))
	if cfg.Chat.HistoryLimit > 0 {
		advisor.HistoryLimit = cfg.Chat.HistoryLimit
	}
	if cfg.LLM.Timeout.Duration > 0 {
		advisor.Timeout = cfg.LLM.Timeout.Duration
	}

	analyzer := analysis.NewAnalyzer(analysisModel, cfg.Analysis.Timeout.Duration, log.Named("analysis"))

	return NewServer(advisor, analyzer, buildings, chats, log.Named("http")), cleanup, nil
}

// withClose extends cleanup to close client when it holds a connection.
func withClose(cleanup func(), client llm.LLMClient, log *zap.Logger) func() {
	closer, ok := client.(io.Closer)
	if !ok {
		return cleanup
	}
	return func() {
		if err := closer.Close(); err != nil {
			log.Warn("failed to close model client", zap.Error(err))
		}
		cleanup()
	}
}
