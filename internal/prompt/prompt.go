// Package prompt asks line-oriented questions on a terminal or pipe.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/setlist/internal/plandoc"
	"github.com/aidanlsb/setlist/internal/ui"
)

// Prompter reads one answer per line from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

// New returns a Prompter over in and out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask shows question and the current value, reads one line, and resolves it
// with plandoc.Resolve. Once input is exhausted every later question keeps
// its current value.
func (p *Prompter) Ask(question, current string, normalize bool) (string, error) {
	fmt.Fprintln(p.out, ui.Header(question))
	fmt.Fprintf(p.out, "Current: %s\n", ui.Placeholder(current))
	fmt.Fprint(p.out, "Entry: ")

	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return plandoc.Resolve(current, line, normalize), nil
}

func (p *Prompter) readLine() (string, error) {
	if p.eof {
		fmt.Fprintln(p.out)
		return "", nil
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.eof = true
			fmt.Fprintln(p.out)
			return line, nil
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
