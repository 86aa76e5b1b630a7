package cmd

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/mapper"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <artifact>",
	Short: "Import artifacts from the server into the workbook",
	Long:  `Replaces the data rows of the artifact's sheet with the current server contents. Artifact is one of: requirements, releases, testcases, testsets, testruns, incidents, tasks, customvalues.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact, err := parseArtifact(args[0])
		if err != nil {
			return err
		}
		return runOperation(func(ctx context.Context, im *mapper.Importer) error {
			return im.Import(ctx, artifact)
		})
	},
}

func init() {
	importCmd.Flags().StringVarP(&syncWorkbook, "file", "f", "", "workbook file (.xlsx)")
	importCmd.Flags().IntVar(&syncProject, "project", 0, "project id (overrides the configured default)")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
