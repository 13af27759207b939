package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNonInteractive is returned when input is needed but stdin is not a terminal
var ErrNonInteractive = errors.New("stdin is not a terminal")

// Prompter asks the user for a value
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}

type terminalPrompter struct {
	interactive bool
}

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{interactive: term.IsTerminal(int(os.Stdin.Fd()))}
}

func (p *terminalPrompter) Prompt(label string, secret bool) (string, error) {
	if !p.interactive {
		return "", ErrNonInteractive
	}

	prompt := promptui.Prompt{Label: label}
	if secret {
		prompt.Mask = '*'
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return value, nil
}

// valueOrPrompt returns value, then the environment variable, then asks
func valueOrPrompt(p Prompter, value, envKey, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if v := os.Getenv(envKey); v != "" {
		return v, nil
	}

	v, err := p.Prompt(label, secret)
	if err != nil {
		if errors.Is(err, ErrNonInteractive) {
			return "", fmt.Errorf("%s is required in non-interactive mode (set %s)", label, envKey)
		}
		return "", err
	}
	return v, nil
}
