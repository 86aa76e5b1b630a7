package cmd

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/mapper"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <artifact>",
	Short: "Export edited workbook rows to the server",
	Long:  `Walks the artifact's sheet top to bottom, creating rows without an id and updating rows that have one. Assigned ids are written back into the sheet; per-row failures land in the error column without stopping the export.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact, err := parseArtifact(args[0])
		if err != nil {
			return err
		}
		return runOperation(func(ctx context.Context, im *mapper.Importer) error {
			return im.Export(ctx, artifact)
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&syncWorkbook, "file", "f", "", "workbook file (.xlsx)")
	exportCmd.Flags().IntVar(&syncProject, "project", 0, "project id (overrides the configured default)")
	exportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(exportCmd)
}
