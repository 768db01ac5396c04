package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"imgurpurge/pkg/browser"
	"imgurpurge/pkg/config"
	"imgurpurge/pkg/logger"
	"imgurpurge/pkg/purge"
	"imgurpurge/pkg/session"
	"imgurpurge/pkg/ui"
)

var loginStorageFile string

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in once and save the browser session",
	Long: `Open a real browser window on the Imgur sign-in page. Log in there
(including any second factor), then come back to this terminal and press
ENTER. The authenticated session is written to a local storage state file
that later purge runs reuse, so you never log in through automation.

The file contains your session cookies. Keep it private.`,
	Example: `  # Log in and save the session next to the binary
  imgurpurge login

  # Save to a specific file
  imgurpurge login --storage my_account.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runLogin()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginStorageFile, "storage", "s", "imgur_storage_state.json", "where to write the session storage state")
}

func runLogin() {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := logger.Initialize(cfg.Logging.Level, os.Stderr); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the browser lives inside captureSession so its deferred Close runs
	// before any exit below
	state, err := captureSession(ctx, cfg, log)
	if err != nil {
		ui.PrintError("Login failed", err.Error())
		os.Exit(1)
	}
	if len(state.Cookies) == 0 {
		ui.PrintWarning("No cookies captured; the login may not have completed")
	}

	if err := session.Save(loginStorageFile, state); err != nil {
		ui.PrintError("Failed to save session", err.Error())
		os.Exit(1)
	}
	log.WithFields(map[string]interface{}{
		"file":    loginStorageFile,
		"cookies": len(state.Cookies),
	}).Info("session saved")
	ui.PrintSuccess("Session saved to " + loginStorageFile)

	if username := session.DetectUsername(state); username != "" {
		ui.PrintInfo("Detected username", username)
	} else {
		ui.PrintWarning("Could not detect a username from the session; you can pass --username later")
	}
}

// captureSession opens a headful browser (the operator types the
// credentials), waits for the operator to finish, and reads the session
// state. The browser is released on every return path.
func captureSession(ctx context.Context, cfg *config.Config, log logger.Logger) (*session.State, error) {
	bsess, err := browser.NewSession(browser.Config{
		Headless:       false,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("could not start browser: %w", err)
	}
	defer bsess.Close()

	page := bsess.Page()
	if err := page.Navigate(ctx, purge.BaseURL+"/signin", 60*time.Second); err != nil {
		return nil, fmt.Errorf("could not open the sign-in page: %w", err)
	}

	ui.PrintHighlight("A browser window is open on the Imgur sign-in page.")
	prompter := ui.NewStdPrompter()
	if err := prompter.WaitForEnter("Log in there, then press ENTER here to save the session... "); err != nil {
		return nil, fmt.Errorf("aborted: %w", err)
	}

	return bsess.CaptureState(ctx, purge.BaseURL)
}
