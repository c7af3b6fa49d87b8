package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prism-insight/prism-cli/internal/analysis"
)

var compareCmd = &cobra.Command{
	Use:   "compare <base-dataset-id> <target-dataset-id>",
	Short: "Compare two dataset snapshots",
	Long:  "Computes the statistical diff between two datasets plus price-band and keyword movement.",
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
			return eris.Wrap(err, "compare: base")
		}
		target, err := st.GetDataset(ctx, targetID)
		if err != nil {
			return eris.Wrap(err, "compare: target")
		}
		baseRows, err := st.GetRows(ctx, baseID)
		if err != nil {
			return eris.Wrap(err, "compare: base rows")
		}
		targetRows, err := st.GetRows(ctx, targetID)
		if err != nil {
			return eris.Wrap(err, "compare: target rows")
		}

		result, err := analysis.Compare(ctx, *base, *target, baseRows, targetRows, compareOptions())
		if err != nil {
			return eris.Wrap(err, "compare")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
