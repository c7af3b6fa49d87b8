package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prism-insight/prism-cli/internal/analysis"
	"github.com/prism-insight/prism-cli/internal/model"
	"github.com/prism-insight/prism-cli/internal/stats"
	"github.com/prism-insight/prism-cli/pkg/llm"
)

var (
	analyzeTemplate        bool
	analyzePromptVersion   string
	analyzeCompareTemplate bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate natural-language summaries of datasets",
}

var analyzeDatasetCmd = &cobra.Command{
	Use:   "dataset <dataset-id>",
	Short: "Summarize one dataset's statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		rows, err := st.GetRows(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "analyze dataset")
		}
		summary := stats.ProfileDataset(rows)

		client, err := analyzeClient(analyzeTemplate)
		if err != nil {
			return err
		}

		var result model.AnalysisResult
		if client == nil {
			result = analysis.TemplateSummary(summary)
		} else {
			text, err := client.Generate(ctx, analysis.RenderPrompt(summary, promptOptions()))
			if err != nil {
				return eris.Wrap(err, "analyze dataset: generate")
			}
			result = model.AnalysisResult{
				GeneratedAt: time.Now().UTC().Format(time.RFC3339),
				Text:        text,
			}
		}

		return printJSON(result)
	},
}

var analyzeCompareCmd = &cobra.Command{
	Use:   "compare <base-dataset-id> <target-dataset-id>",
	Short: "Summarize the change between two datasets",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		baseID, targetID := args[0], args[1]

		if baseID == targetID {
			return eris.New("cannot compare dataset with itself")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		base, err := st.GetDataset(ctx, baseID)
		if err != nil {
			return eris.Wrap(err, "analyze compare: base")
		}
		target, err := st.GetDataset(ctx, targetID)
		if err != nil {
			return eris.Wrap(err, "analyze compare: target")
		}
		baseRows, err := st.GetRows(ctx, baseID)
		if err != nil {
			return eris.Wrap(err, "analyze compare: base rows")
		}
		targetRows, err := st.GetRows(ctx, targetID)
		if err != nil {
			return eris.Wrap(err, "analyze compare: target rows")
		}

		cmpResult, err := analysis.Compare(ctx, *base, *target, baseRows, targetRows, compareOptions())
		if err != nil {
			return eris.Wrap(err, "analyze compare")
		}

		client, err := analyzeClient(analyzeCompareTemplate)
		if err != nil {
			return err
		}

		var result model.AnalysisResult
		if client == nil {
			result = analysis.TemplateComparisonSummary(*cmpResult)
		} else {
			prompt := analysis.BuildComparisonPrompt(*cmpResult, analysis.PromptVersion(analyzePromptVersion))
			text, err := client.Generate(ctx, prompt)
			if err != nil {
				return eris.Wrap(err, "analyze compare: generate")
			}
			result = model.AnalysisResult{
				GeneratedAt: time.Now().UTC().Format(time.RFC3339),
				Text:        text,
			}
		}

		return printJSON(result)
	},
}

// analyzeClient returns nil when the template fallback was forced or no
// provider is configured.
func analyzeClient(forceTemplate bool) (llm.Client, error) {
	if forceTemplate {
		return nil, nil
	}
	return initLLM()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	analyzeDatasetCmd.Flags().BoolVar(&analyzeTemplate, "template", false, "skip the LLM and use the template summary")
	analyzeCompareCmd.Flags().BoolVar(&analyzeCompareTemplate, "template", false, "skip the LLM and use the template summary")
	analyzeCompareCmd.Flags().StringVar(&analyzePromptVersion, "version", "v2", "comparison prompt version (v1, v2)")

	analyzeCmd.AddCommand(analyzeDatasetCmd)
	analyzeCmd.AddCommand(analyzeCompareCmd)
	rootCmd.AddCommand(analyzeCmd)
}
