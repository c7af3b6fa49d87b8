package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prism-insight/prism-cli/internal/analysis"
	"github.com/prism-insight/prism-cli/internal/model"
	"github.com/prism-insight/prism-cli/internal/stats"
)

func (s *apiServer) promptOptions() analysis.PromptOptions {
	return analysis.PromptOptions{
		MaxPromptChars: s.analysisCfg.MaxPromptChars,
	}
}

func (s *apiServer) compareOptions() analysis.CompareOptions {
	return analysis.CompareOptions{
		PriceField:  s.analysisCfg.PriceField,
		TextField:   s.analysisCfg.TextField,
		KeywordTopN: s.analysisCfg.KeywordTopN,
	}
}

// generate runs the prompt through the configured LLM with the request-scoped
// timeout applied.
func (s *apiServer) generate(ctx context.Context, prompt string) (string, error) {
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}
	return s.llm.Generate(ctx, prompt)
}

func (s *apiServer) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	rows, err := s.store.GetRows(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Dataset not found")
		return
	}
	summary := stats.ProfileDataset(rows)

	if s.llm == nil {
		writeJSON(w, http.StatusOK, analysis.TemplateSummary(summary))
		return
	}

	text, err := s.generate(r.Context(), analysis.RenderPrompt(summary, s.promptOptions()))
	if err != nil {
		writeLLMError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AnalysisResult{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Text:        text,
	})
}

// loadComparison resolves both datasets and computes the full comparison. On
// failure it writes the response itself and returns nil.
func (s *apiServer) loadComparison(w http.ResponseWriter, r *http.Request) *model.ComparisonResult {
	baseID := r.URL.Query().Get("base")
	targetID := r.URL.Query().Get("target")
	if baseID == "" || targetID == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "base and target query parameters are required")
		return nil
	}
	if baseID == targetID {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Cannot compare dataset with itself")
		return nil
	}

	base, err := s.store.GetDataset(r.Context(), baseID)
	if err != nil {
		writeStoreError(w, err, fmt.Sprintf("Dataset not found: base=%s", baseID))
		return nil
	}
	target, err := s.store.GetDataset(r.Context(), targetID)
	if err != nil {
		writeStoreError(w, err, fmt.Sprintf("Dataset not found: target=%s", targetID))
		return nil
	}

	baseRows, err := s.store.GetRows(r.Context(), baseID)
	if err != nil {
		writeStoreError(w, err, fmt.Sprintf("Dataset not found: base=%s", baseID))
		return nil
	}
	targetRows, err := s.store.GetRows(r.Context(), targetID)
	if err != nil {
		writeStoreError(w, err, fmt.Sprintf("Dataset not found: target=%s", targetID))
		return nil
	}

	result, err := analysis.Compare(r.Context(), *base, *target, baseRows, targetRows, s.compareOptions())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Comparison failed")
		return nil
	}
	return result
}

func (s *apiServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	result := s.loadComparison(w, r)
	if result == nil {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleCompareAnalysis(w http.ResponseWriter, r *http.Request) {
	result := s.loadComparison(w, r)
	if result == nil {
		return
	}

	if s.llm == nil {
		writeJSON(w, http.StatusOK, analysis.TemplateComparisonSummary(*result))
		return
	}

	version := analysis.PromptVersion(r.URL.Query().Get("version"))
	if version == "" {
		version = analysis.PromptV2
	}

	text, err := s.generate(r.Context(), analysis.BuildComparisonPrompt(*result, version))
	if err != nil {
		writeLLMError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AnalysisResult{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Text:        text,
	})
}
