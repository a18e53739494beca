package scheduler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompter supplies operator answers to verification challenges.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter reads free-text answers from in (normally stdin).
// The read blocks without honoring ctx; the process-level interrupt is
// the only way out, matching the interactive contract.
func NewTerminalPrompter(in io.Reader, out io.Writer) Prompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *terminalPrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
