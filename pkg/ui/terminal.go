package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ASCII banner for the application
const ASCIIBanner = `
    ╔══════════════════════════════════════════════════════╗
    ║          IMGUR BULK DELETION - PURGE UTILITY          ║
    ╚══════════════════════════════════════════════════════╝
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Bold    = colorize("\033[1m%s\033[0m")
)

var colorEnabled = term.IsTerminal(int(os.Stdout.Fd()))

// SetColorEnabled overrides color auto-detection (used by --no-color)
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorEnabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintBanner prints the ASCII banner with color
func PrintBanner() {
	fmt.Print(Cyan(ASCIIBanner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled info message
func PrintInfo(label string, value string) {
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Println(Magenta(msg))
}

// PrintRunBanner prints the pre-run summary banner
func PrintRunBanner(username string, dryRun bool, maxItems int, headless bool) {
	mode := Red("DELETION MODE (IRREVERSIBLE)")
	title := "Delete"
	if dryRun {
		mode = Yellow("DRY RUN ENABLED")
		title = "Dry-Run"
	}
	headlessStr := "No"
	if headless {
		headlessStr = "Yes"
	}
	fmt.Printf("\n%s\n", Cyan(fmt.Sprintf("========================= Imgur Bulk %s =========================", title)))
	fmt.Printf("  Username: %s\n", Bold(username))
	fmt.Printf("  Mode:     %s\n", mode)
	fmt.Printf("  Limit:    %d item(s) this run\n", maxItems)
	fmt.Printf("  Headless: %s\n", headlessStr)
	fmt.Printf("\n%s\n", Green("Press Ctrl+C in this terminal at ANY time to stop safely."))
	fmt.Printf("%s\n\n", Cyan("====================================================================="))
}
