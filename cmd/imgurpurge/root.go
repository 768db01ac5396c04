package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"imgurpurge/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands.
// Running it without a subcommand starts a purge.
var rootCmd = &cobra.Command{
	Use:   "imgurpurge",
	Short: "Bulk-delete your own Imgur posts through a controlled browser session",
	Long: `imgurpurge walks your Imgur profile grid and deletes posts one by one
through the site's own UI, driven by an automated browser.

Workflow:
  1. imgurpurge login    log in once in a real browser window; the session
                         is saved to a local storage state file
  2. imgurpurge          interactive setup, then the deletion run

Dry-run mode is the default: every UI path is exercised but nothing is
deleted. Albums are only ungrouped; their images are never removed.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.SetColorEnabled(false)
		}
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintBanner()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		runPurge(cmd)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./imgur_delete_config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`imgurpurge {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
