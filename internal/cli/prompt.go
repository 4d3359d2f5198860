package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrPromptCancelled is returned when the user interrupts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Prompter reads interactive input.
type Prompter interface {
	// Line reads one line of visible input.
	Line(prompt string) (string, error)
	// Password reads one line without echoing it.
	Password(prompt string) (string, error)
}

// ReadlinePrompter prompts on the controlling terminal.
type ReadlinePrompter struct{}

// NewReadlinePrompter creates a terminal prompter.
func NewReadlinePrompter() *ReadlinePrompter {
	return &ReadlinePrompter{}
}

// Line implements Prompter.
func (p *ReadlinePrompter) Line(prompt string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create readline instance: %w", err)
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
	rl, err := readline.NewEx(&readline.Config{InterruptPrompt: "^C"})
	if err != nil {
		return "", fmt.Errorf("failed to create readline instance: %w", err)
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
		return ErrPromptCancelled
	}
	return fmt.Errorf("readline error: %w", err)
}

// ParseKeyValues parses key=value pairs as given to --data.
func ParseKeyValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid data %q: expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

// CollectCredentials builds the login body from --data pairs and the
// username and password flags. A missing username or password is read from
// p; with a nil Prompter it is an error.
func CollectCredentials(p Prompter, username, password string, data map[string]any) (map[string]any, error) {
	creds := make(map[string]any, len(data)+2)
	for k, v := range data {
		creds[k] = v
	}
	if username != "" {
		creds["username"] = username
	}
	if password != "" {
		creds["password"] = password
	}

	_, hasUser := creds["username"]
	_, hasEmail := creds["email"]
	if !hasUser && !hasEmail {
		if p == nil {
			return nil, errors.New("username is required")
		}
		u, err := p.Line("Username: ")
		if err != nil {
			return nil, err
		}
		creds["username"] = u
	}

	if _, ok := creds["password"]; !ok {
		if p == nil {
			return nil, errors.New("password is required")
		}
		pw, err := p.Password("Password: ")
		if err != nil {
			return nil, err
		}
		creds["password"] = pw
	}

	return creds, nil
}
