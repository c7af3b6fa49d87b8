package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prism-insight/prism-cli/internal/ingest"
)

var importFilePath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV or XLSX file as a new dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(importFilePath)
		if err != nil {
			return eris.Wrap(err, "read input file")
		}

		filename := filepath.Base(importFilePath)
		rows, err := ingest.ReadUpload(filename, data)
		if err != nil {
			return eris.Wrap(err, "parse input file")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		dataset, err := st.CreateDataset(ctx, filename, rows)
		if err != nil {
			return eris.Wrap(err, "store dataset")
		}

		zap.L().Info("import complete",
			zap.String("dataset_id", dataset.ID),
			zap.String("filename", dataset.Filename),
			zap.Int("rows", dataset.Rows),
		)
		fmt.Println(dataset.ID)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to CSV or XLSX file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
