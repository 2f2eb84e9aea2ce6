package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"inventory.GO/service/catalog"
)

var (
	importFile    string
	importBatch   int
	importReorder int
)

var importCmd = &cobra.Command{
	Use:   "variations:import",
	Short: "Import product variations from CSV, upserting by SKU",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open CSV: %w", err)
		}
		defer f.Close()

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		res, err := catalog.ImportVariations(cmd.Context(), a.db, f, catalog.ImportOptions{
			BatchSize:           importBatch,
			DefaultReorderLevel: importReorder,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  [warn] %s\n", w)
		}
		fmt.Fprintf(out, `
=== Import Report ===
CSV rows:         %d
Created:          %d
Updated:          %d
Skipped:          %d
Products created: %d
Total time:       %s
=====================
`, res.TotalRows, res.Created, res.Updated, res.Skipped, res.ProductsCreated, res.TotalTime.Round(time.Millisecond))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file path (required)")
	importCmd.MarkFlagRequired("file")
	importCmd.Flags().IntVar(&importBatch, "batch-size", 500, "Batch size for DB operations")
	importCmd.Flags().IntVar(&importReorder, "reorder-level", 10, "Reorder level for rows without one")
	rootCmd.AddCommand(importCmd)
}
