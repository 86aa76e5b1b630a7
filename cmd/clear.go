package cmd

import (
	"context"
	"fmt"

	"github.com/dt-pm-tools/sheet-sync/internal/mapper"
	"github.com/dt-pm-tools/sheet-sync/internal/sheet"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear <artifact>",
	Short: "Clear the data rows of an artifact's sheet",
	Long:  `Wipes the artifact's sheet from row 3 down, values and formatting both, leaving the header rows in place. Runs entirely locally; no server connection is made.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact, err := parseArtifact(args[0])
		if err != nil {
			return err
		}

		book, err := sheet.OpenWorkbook(syncWorkbook)
		if err != nil {
			return fmt.Errorf("opening workbook: %w", err)
		}

		im := mapper.New(nil, book, mapper.Options{})
		if err := im.Clear(context.Background(), artifact); err != nil {
			return err
		}
		if err := book.Save(); err != nil {
			return fmt.Errorf("saving workbook: %w", err)
		}
		fmt.Println("Cleared.")
		return nil
	},
}

func init() {
	clearCmd.Flags().StringVarP(&syncWorkbook, "file", "f", "", "workbook file (.xlsx)")
	clearCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(clearCmd)
}
