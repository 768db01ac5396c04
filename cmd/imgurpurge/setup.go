package main

import (
	"errors"
	"fmt"

	"imgurpurge/pkg/config"
	"imgurpurge/pkg/session"
	"imgurpurge/pkg/ui"
)

// interactiveSetup walks the operator through every run parameter and
// mutates cfg in place. Returning an error aborts the run before any
// browser starts.
func interactiveSetup(cfg *config.Config, prompter *ui.Prompter) error {
	// Fast path: a complete saved config can be reused as-is
	if cfg.Run.Username != "" && cfg.Run.StorageFile != "" && fileExists(cfg.Run.StorageFile) {
		fmt.Println()
		ui.PrintInfo("Saved username", cfg.Run.Username)
		ui.PrintInfo("Saved session file", cfg.Run.StorageFile)
		ui.PrintInfo("Saved mode", modeWord(cfg.Run.DryRun))
		ui.PrintInfo("Saved limit", fmt.Sprintf("%d item(s)", cfg.Run.MaxItems))
		useSaved, err := prompter.YesNo("Use saved settings?", true)
		if err != nil {
			return err
		}
		if useSaved {
			if !cfg.Run.DryRun {
				return confirmDeletionMode(cfg, prompter)
			}
			return nil
		}
	}

	if err := chooseStorageFile(cfg, prompter); err != nil {
		return err
	}
	if err := chooseUsername(cfg, prompter); err != nil {
		return err
	}

	dryRun, err := prompter.YesNo("Dry run (walk the UI, delete nothing)?", cfg.Run.DryRun)
	if err != nil {
		return err
	}
	cfg.Run.DryRun = dryRun
	if !dryRun {
		if err := confirmDeletionMode(cfg, prompter); err != nil {
			return err
		}
	}

	maxItems, err := prompter.Int("How many items to process this run", cfg.Run.MaxItems, 1)
	if err != nil {
		return err
	}
	cfg.Run.MaxItems = maxItems

	// headless defaults to the dry-run choice: watching a real deletion
	// run is usually wanted, watching a simulation usually is not
	headless, err := prompter.YesNo("Run the browser headless (no window)?", cfg.Run.DryRun)
	if err != nil {
		return err
	}
	cfg.Browser.Headless = headless

	fmt.Println()
	ui.PrintInfo("Username", cfg.Run.Username)
	ui.PrintInfo("Session file", cfg.Run.StorageFile)
	ui.PrintInfo("Mode", modeWord(cfg.Run.DryRun))
	ui.PrintInfo("Limit", fmt.Sprintf("%d item(s)", cfg.Run.MaxItems))
	proceed, err := prompter.YesNo("Proceed with these settings?", true)
	if err != nil {
		return err
	}
	if !proceed {
		return errors.New("declined by operator")
	}

	save, err := prompter.YesNo("Save these settings for next time?", true)
	if err != nil {
		return err
	}
	if save {
		path := configFile
		if path == "" {
			path = config.DefaultConfigFile
		}
		if err := cfg.Save(path); err != nil {
			ui.PrintWarning("Could not save config", err.Error())
		} else {
			ui.PrintInfo("Settings saved", path)
		}
	}
	return nil
}

// confirmDeletionMode double-checks an irreversible run; declining falls
// back to a dry run instead of aborting
func confirmDeletionMode(cfg *config.Config, prompter *ui.Prompter) error {
	ui.PrintWarning("DELETION MODE: posts will be permanently removed. This cannot be undone.")
	sure, err := prompter.YesNo("Are you absolutely sure?", false)
	if err != nil {
		return err
	}
	if !sure {
		ui.PrintWarning("Falling back to dry run")
		cfg.Run.DryRun = true
	}
	return nil
}

// chooseStorageFile discovers session files in the working directory and
// lets the operator pick one
func chooseStorageFile(cfg *config.Config, prompter *ui.Prompter) error {
	candidates := session.FindStorageFiles(".")
	if len(candidates) == 0 {
		return errors.New("no session storage file found, run 'imgurpurge login' first")
	}

	if len(candidates) == 1 {
		ui.PrintInfo("Session file", candidates[0])
		cfg.Run.StorageFile = candidates[0]
		return nil
	}

	choices := make([]string, len(candidates))
	for i, c := range candidates {
		if user := session.DetectUsernameFromFile(c); user != "" {
			choices[i] = fmt.Sprintf("%s (%s)", c, user)
		} else {
			choices[i] = c
		}
	}
	fmt.Println("\nMultiple session files found:")
	idx, err := prompter.Select("Which session file to use?", choices)
	if err != nil {
		return err
	}
	cfg.Run.StorageFile = candidates[idx]
	return nil
}

// chooseUsername detects the account from the session file and confirms,
// falling back to a free-form prompt
func chooseUsername(cfg *config.Config, prompter *ui.Prompter) error {
	if detected := session.DetectUsernameFromFile(cfg.Run.StorageFile); detected != "" {
		useDetected, err := prompter.YesNo(fmt.Sprintf("Detected username %q. Use it?", detected), true)
		if err != nil {
			return err
		}
		if useDetected {
			cfg.Run.Username = detected
			return nil
		}
	}

	username, err := prompter.String("Imgur username", cfg.Run.Username)
	if err != nil {
		return err
	}
	if username == "" {
		return errors.New("a username is required")
	}
	cfg.Run.Username = username
	return nil
}

func modeWord(dryRun bool) string {
	if dryRun {
		return "dry run"
	}
	return "DELETE"
}

func describeCount(dryRun bool, count int) string {
	if dryRun {
		return fmt.Sprintf("%d item(s) processed (dry run, nothing deleted)", count)
	}
	return fmt.Sprintf("%d item(s) deleted", count)
}
