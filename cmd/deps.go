package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/prism-insight/prism-cli/internal/analysis"
	"github.com/prism-insight/prism-cli/internal/store"
	"github.com/prism-insight/prism-cli/pkg/llm"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.SQLitePath
		if dsn == "" {
			dsn = "prism.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initLLM returns nil when no provider is configured; callers fall back to
// the template summarizer.
func initLLM() (llm.Client, error) {
	return llm.New(llm.Config{
		Provider:          cfg.LLM.Provider,
		APIKey:            cfg.LLM.Key,
		Model:             cfg.LLM.Model,
		MaxTokens:         cfg.LLM.MaxTokens,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
}

func promptOptions() analysis.PromptOptions {
	return analysis.PromptOptions{
		MaxPromptChars: cfg.Analysis.MaxPromptChars,
	}
}

func compareOptions() analysis.CompareOptions {
	return analysis.CompareOptions{
		PriceField:  cfg.Analysis.PriceField,
		TextField:   cfg.Analysis.TextField,
		KeywordTopN: cfg.Analysis.KeywordTopN,
	}
}
