package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prism-insight/prism-cli/internal/model"
	"github.com/prism-insight/prism-cli/internal/store"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect stored datasets",
	Long:  "Commands for listing, viewing, and deleting imported datasets.",
}

// -- datasets list --

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored datasets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		datasets, err := st.ListDatasets(ctx, store.ListFilter{Limit: limit})
		if err != nil {
			return eris.Wrap(err, "datasets list")
		}

		if len(datasets) == 0 {
			fmt.Fprintln(os.Stderr, "No datasets found.")
			return nil
		}

		formatDatasetsList(os.Stdout, datasets)
		return nil
	},
}

// -- datasets show --

var datasetsShowCmd = &cobra.Command{
	Use:   "show <dataset-id>",
	Short: "Show full metadata of a dataset",
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

		dataset, err := st.GetDataset(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "datasets show")
		}

		return printJSON(dataset)
	},
}

// -- datasets delete --

var datasetsDeleteCmd = &cobra.Command{
	Use:   "delete <dataset-id>",
	Short: "Delete a dataset and its rows",
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

		if err := st.DeleteDataset(ctx, args[0]); err != nil {
			return eris.Wrap(err, "datasets delete")
		}

		fmt.Println("deleted", args[0])
		return nil
	},
}

func init() {
	datasetsListCmd.Flags().Int("limit", 50, "max number of datasets to display")

	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsShowCmd)
	datasetsCmd.AddCommand(datasetsDeleteCmd)
	rootCmd.AddCommand(datasetsCmd)
}

// formatDatasetsList writes a tabular list of datasets to w.
func formatDatasetsList(out io.Writer, datasets []model.Dataset) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFILENAME\tROWS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t--------\t----\t-------")

	for _, d := range datasets {
		name := d.Filename
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			truncateID(d.ID),
			name,
			d.Rows,
			d.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
