package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/sheet-sync/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the server connection settings",
	Long:  `Interactively set up the server URL, username, password and default project. Settings are saved to ~/.sheet-sync.yaml; the password is only persisted when you choose to remember it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)

		// URL
		defaultURL := existing.URL
		if defaultURL != "" {
			fmt.Printf("Server URL [%s]: ", defaultURL)
		} else {
			fmt.Print("Server URL (e.g., https://pm.example.com): ")
		}
		url, _ := reader.ReadString('\n')
		url = strings.TrimSpace(url)
		if url == "" {
			url = defaultURL
		}

		// Username
		defaultUser := existing.Username
		if defaultUser != "" {
			fmt.Printf("Username [%s]: ", defaultUser)
		} else {
			fmt.Print("Username: ")
		}
		username, _ := reader.ReadString('\n')
		username = strings.TrimSpace(username)
		if username == "" {
			username = defaultUser
		}

		// Password (masked input)
		fmt.Print("Password (input hidden): ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimSpace(string(passwordBytes))
		if password == "" {
			password = existing.Password
		}

		fmt.Print("Remember password in config file? [y/N]: ")
		remember, _ := reader.ReadString('\n')
		remember = strings.ToLower(strings.TrimSpace(remember))

		// Default project
		if existing.Project > 0 {
			fmt.Printf("Default project id [%d]: ", existing.Project)
		} else {
			fmt.Print("Default project id: ")
		}
		projectText, _ := reader.ReadString('\n')
		projectText = strings.TrimSpace(projectText)
		project := existing.Project
		if projectText != "" {
			project, err = strconv.Atoi(projectText)
			if err != nil {
				return fmt.Errorf("project id must be a number: %w", err)
			}
		}

		fmt.Print("Convert rich text to plain text on import? [Y/n]: ")
		strip, _ := reader.ReadString('\n')
		strip = strings.ToLower(strings.TrimSpace(strip))

		cfg := config.Config{
			URL:              url,
			Username:         username,
			Password:         password,
			RememberPassword: remember == "y" || remember == "yes",
			Project:          project,
			StripRichText:    strip != "n" && strip != "no",
			TestRunDate:      existing.TestRunDate,
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
