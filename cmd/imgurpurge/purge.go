package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"imgurpurge/pkg/browser"
	"imgurpurge/pkg/config"
	apperrors "imgurpurge/pkg/errors"
	"imgurpurge/pkg/logger"
	"imgurpurge/pkg/purge"
	"imgurpurge/pkg/session"
	"imgurpurge/pkg/ui"
)

var (
	// Purge command flags
	flagUsername string
	flagStorage  string
	flagDryRun   bool
	flagDelete   bool
	flagMaxItems int
	flagHeadless bool
	assumeYes    bool
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Run the deletion loop over your post grid",
	Long: `Run the deletion loop: load the saved browser session, open your
profile's post grid, and process posts top-to-bottom, left-to-right until
the item limit is reached or the grid is exhausted.

Without --yes the run starts with an interactive setup that detects your
username from the session file and confirms every parameter. Dry-run is
the default; real deletions require --delete or an explicit confirmation
during setup.`,
	Example: `  # Interactive setup, then a dry run
  imgurpurge purge

  # Non-interactive dry run of up to 25 posts
  imgurpurge purge --yes --max-items 25

  # Actually delete, headless, for a specific account
  imgurpurge purge --yes --delete --headless --username myaccount`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runPurge(cmd)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	for _, cmd := range []*cobra.Command{purgeCmd, rootCmd} {
		cmd.Flags().StringVarP(&flagUsername, "username", "u", "", "imgur username owning the posts")
		cmd.Flags().StringVarP(&flagStorage, "storage", "s", "", "session storage state file")
		cmd.Flags().BoolVar(&flagDryRun, "dry-run", true, "walk the UI without deleting anything")
		cmd.Flags().BoolVar(&flagDelete, "delete", false, "perform real deletions (overrides --dry-run)")
		cmd.Flags().IntVarP(&flagMaxItems, "max-items", "n", 0, "maximum items to process this run")
		cmd.Flags().BoolVar(&flagHeadless, "headless", false, "run the browser without a window")
		cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip interactive setup, use config and flags as-is")
	}
}

func runPurge(cmd *cobra.Command) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if flagUsername != "" {
		flags["username"] = flagUsername
	}
	if flagStorage != "" {
		flags["storage-file"] = flagStorage
	}
	if cmd.Flags().Changed("dry-run") {
		flags["dry-run"] = flagDryRun
	}
	if flagDelete {
		flags["dry-run"] = false
	}
	if flagMaxItems > 0 {
		flags["max-items"] = flagMaxItems
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = flagHeadless
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logging.Level, os.Stderr); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("imgurpurge starting")

	if assumeYes {
		if err := resolveNonInteractive(cfg); err != nil {
			ui.PrintError("Setup failed", err.Error())
			os.Exit(1)
		}
	} else {
		prompter := ui.NewStdPrompter()
		if err := interactiveSetup(cfg, prompter); err != nil {
			ui.PrintError("Setup aborted", err.Error())
			os.Exit(1)
		}
	}

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Invalid configuration", err.Error())
		os.Exit(1)
	}

	// The session file must exist and parse before any browser starts
	state, err := session.Load(cfg.Run.StorageFile)
	if err != nil {
		ui.PrintError("Cannot load session", err.Error())
		os.Exit(failureExitCode(err))
	}

	ui.PrintRunBanner(cfg.Run.Username, cfg.Run.DryRun, cfg.Run.MaxItems, cfg.Browser.Headless)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count, err := executeRun(ctx, cfg, state, log)
	switch {
	case errors.Is(err, context.Canceled):
		ierr := apperrors.Wrap(apperrors.ErrorTypeInterrupted, "operator requested stop", err)
		log.WithError(ierr).WithField("processed", count).Warn("run interrupted")
		ui.PrintWarning("Interrupted", describeCount(cfg.Run.DryRun, count))
	case err != nil:
		log.WithError(err).Error("run failed")
		ui.PrintError("Run failed", err.Error())
		os.Exit(failureExitCode(err))
	default:
		log.WithField("processed", count).Info("run completed")
		ui.PrintSuccess("Done: " + describeCount(cfg.Run.DryRun, count))
	}
}

// browserHandle is the slice of browser.Session the run needs; a seam so
// the session-release guarantee is testable without a real browser
type browserHandle interface {
	ApplyState(ctx context.Context, state *session.State) error
	Page() purge.Page
	Close()
}

// chromeHandle adapts *browser.Session to browserHandle
type chromeHandle struct {
	s *browser.Session
}

func (h chromeHandle) ApplyState(ctx context.Context, state *session.State) error {
	return h.s.ApplyState(ctx, state)
}
func (h chromeHandle) Page() purge.Page { return h.s.Page() }
func (h chromeHandle) Close()           { h.s.Close() }

// executeRun starts the browser and runs the loop
func executeRun(ctx context.Context, cfg *config.Config, state *session.State, log logger.Logger) (int, error) {
	bsess, err := browser.NewSession(browser.Config{
		Headless:       cfg.Browser.Headless,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
	}, log)
	if err != nil {
		return 0, err
	}
	return runWithSession(ctx, cfg, state, log, chromeHandle{bsess})
}

// runWithSession owns the session for the rest of the run; the deferred
// Close runs on every return path, so failures never leak the browser
// process
func runWithSession(ctx context.Context, cfg *config.Config, state *session.State, log logger.Logger, h browserHandle) (int, error) {
	defer h.Close()

	if err := h.ApplyState(ctx, state); err != nil {
		return 0, err
	}

	purger := purge.New(h.Page(), purge.Options{
		Username:         cfg.Run.Username,
		DryRun:           cfg.Run.DryRun,
		MaxItems:         cfg.Run.MaxItems,
		NavTimeout:       cfg.Browser.NavTimeout,
		SettleDelay:      cfg.Browser.SettleDelay,
		ActionsPerMinute: cfg.Pacing.ActionsPerMinute,
	}, log)
	return purger.Run(ctx)
}

// failureExitCode distinguishes fatal setup failures (bad session, missing
// preconditions) from ordinary run failures
func failureExitCode(err error) int {
	var typed *apperrors.Error
	if errors.As(err, &typed) && apperrors.IsFatal(typed.Type) {
		return 2
	}
	return 1
}

// resolveNonInteractive fills the remaining gaps when --yes skips setup:
// the storage file must be discoverable and the username detectable
func resolveNonInteractive(cfg *config.Config) error {
	if cfg.Run.StorageFile == "" || !fileExists(cfg.Run.StorageFile) {
		candidates := session.FindStorageFiles(".")
		if len(candidates) == 0 {
			return errors.New("no session storage file found, run 'imgurpurge login' first")
		}
		cfg.Run.StorageFile = candidates[0]
	}
	if cfg.Run.Username == "" {
		cfg.Run.Username = session.DetectUsernameFromFile(cfg.Run.StorageFile)
		if cfg.Run.Username == "" {
			return errors.New("could not detect username from session file, pass --username")
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
