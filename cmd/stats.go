package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prism-insight/prism-cli/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dataset-id>",
	Short: "Profile a dataset and print per-column statistics",
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
			return eris.Wrap(err, "stats")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats.ProfileDataset(rows))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
