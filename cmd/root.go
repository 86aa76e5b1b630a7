package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/sheet-sync/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.Config
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "sheet-sync",
	Short:   "Spreadsheet <-> artifact server bidirectional sync tool",
	Long:    `A CLI tool for importing project artifacts (requirements, releases, test cases, incidents and more) from the artifact management server into a spreadsheet workbook, and exporting edited rows back.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sheet-sync.yaml)")
}

// loadConfig loads and validates configuration. Commands that need
// server access call this.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'sheet-sync config' to set up the connection", err)
	}
	appConfig = cfg
	return nil
}
