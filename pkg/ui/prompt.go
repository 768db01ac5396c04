package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter runs interactive terminal prompts. Input and output are
// injectable so the setup flow can be tested without a real terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading from in and writing to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// NewStdPrompter creates a prompter bound to stdin/stdout
func NewStdPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// YesNo asks a yes/no question and returns the answer, using def when the
// operator just presses ENTER
func (p *Prompter) YesNo(prompt string, def bool) (bool, error) {
	defText := "[y/N]"
	if def {
		defText = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.out, "%s %s: ", prompt, defText)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, Yellow("Please enter 'y' or 'n'"))
	}
}

// Int asks for an integer, enforcing a minimum value, with a default
func (p *Prompter) Int(prompt string, def, min int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s [%d]: ", prompt, def)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return def, nil
		}
		val, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintln(p.out, Yellow("Please enter a valid number"))
			continue
		}
		if val < min {
			fmt.Fprintln(p.out, Yellow(fmt.Sprintf("Must be at least %d", min)))
			continue
		}
		return val, nil
	}
}

// String asks for a free-form string, returning def on empty input
func (p *Prompter) String(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Select shows a numbered menu of choices and returns the chosen index
func (p *Prompter) Select(prompt string, choices []string) (int, error) {
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, c)
	}
	for {
		fmt.Fprintf(p.out, "\n%s [1-%d]: ", prompt, len(choices))
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return 0, err
		}
		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			fmt.Fprintln(p.out, Yellow("Please enter a number"))
			continue
		}
		if choice < 1 || choice > len(choices) {
			fmt.Fprintln(p.out, Yellow("Invalid choice"))
			continue
		}
		return choice - 1, nil
	}
}

// WaitForEnter blocks until the operator presses ENTER
func (p *Prompter) WaitForEnter(prompt string) error {
	fmt.Fprint(p.out, prompt)
	_, err := p.in.ReadString('\n')
	return err
}
