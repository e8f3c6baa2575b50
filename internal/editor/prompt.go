package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Answer is the user's reply at an interaction boundary.
type Answer int

const (
	Yes Answer = iota + 1
	No
	// Cancel means the prompt was dismissed without a reply.
	Cancel
)

// Outcome describes what a mutating call did when it returned no error.
type Outcome int

const (
	Written Outcome = iota + 1
	Unchanged
	Declined
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	case Declined:
		return "declined"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (a Answer) outcome() Outcome {
	if a == No {
		return Declined
	}
	return Cancelled
}

// Prompter asks the user synchronously.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) (Answer, error)
	// Passphrase reads a secret. The answer is Yes when a value was entered.
	Passphrase(ctx context.Context, label string) (string, Answer, error)
}

// LinePrompter prompts on out and reads replies line by line from in.
// End of input is a Cancel.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Confirm(ctx context.Context, question string) (Answer, error) {
	line, ok, err := p.ask(ctx, question+" [y/N] ")
	if err != nil || !ok {
		return Cancel, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return Yes, nil
	default:
		return No, nil
	}
}

func (p *LinePrompter) Passphrase(ctx context.Context, label string) (string, Answer, error) {
	line, ok, err := p.ask(ctx, label+" ")
	if err != nil || !ok {
		return "", Cancel, err
	}
	return line, Yes, nil
}

func (p *LinePrompter) ask(ctx context.Context, prompt string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
		return "", false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("read reply: %w", err)
	}
	return strings.TrimSpace(line), true, nil
}
