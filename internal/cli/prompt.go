package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrPromptAborted is returned when the user interrupts a prompt.
var ErrPromptAborted = errors.New("prompt aborted")

// Prompter asks the user for input.
type Prompter interface {
	// Line reads one line of visible input.
	Line(prompt string) (string, error)
	// Password reads one line without echoing it.
	Password(prompt string) (string, error)
}

// ReadlinePrompter prompts on a terminal through readline.
type ReadlinePrompter struct {
	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer
}

func (p *ReadlinePrompter) instance(prompt string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		Stdin:           p.Stdin,
		Stdout:          p.Stdout,
		Stderr:          p.Stderr,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal prompt: %w", err)
	}
	return rl, nil
}

// Line implements Prompter.
func (p *ReadlinePrompter) Line(prompt string) (string, error) {
	rl, err := p.instance(prompt)
	if err != nil {
		return "", err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(line), nil
}

// Password implements Prompter.
func (p *ReadlinePrompter) Password(prompt string) (string, error) {
	rl, err := p.instance("")
	if err != nil {
		return "", err
	}
	defer rl.Close()

	secret, err := rl.ReadPassword(prompt)
	if err != nil {
		return "", promptError(err)
	}
	return string(secret), nil
}

func promptError(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return ErrPromptAborted
	}
	return err
}

// Ask returns value when it is set and prompts for it otherwise.
func Ask(p Prompter, value, prompt string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if p == nil {
		return "", fmt.Errorf("%s is required", strings.TrimSuffix(strings.TrimSpace(prompt), ":"))
	}
	if secret {
		return p.Password(prompt)
	}
	return p.Line(prompt)
}

var _ Prompter = (*ReadlinePrompter)(nil)
