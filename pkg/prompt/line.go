package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// lineReader reads one line of input after showing a prompt.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// Line prompts on a terminal, one line per answer.
type Line struct {
	in  lineReader
	out io.Writer
}

// NewLine creates a prompter on stdin/stdout with readline editing.
func NewLine() (*Line, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Line{in: &readlineReader{rl: rl}, out: rl.Stdout()}, nil
}

// NewLineFrom creates a prompter reading plain lines from r and writing
// prompts to w. Used when stdin is not a terminal.
func NewLineFrom(r io.Reader, w io.Writer) *Line {
	return &Line{in: &bufioReader{r: bufio.NewReader(r), w: w}, out: w}
}

// Close releases the terminal.
func (l *Line) Close() error {
	return l.in.Close()
}

func (l *Line) read(prompt string) (string, error) {
	line, err := l.in.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Text implements Prompter.
func (l *Line) Text(label, def string) (string, error) {
	p := label + ": "
	if def != "" {
		p = fmt.Sprintf("%s [%s]: ", label, def)
	}
	answer, err := l.read(p)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// YesNo implements Prompter.
func (l *Line) YesNo(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		answer, err := l.read(fmt.Sprintf("%s [%s]: ", label, hint))
		if err != nil {
			return false, err
		}
		if answer == "" {
			return def, nil
		}
		if v, ok := ParseYesNo(answer); ok {
			return v, nil
		}
		fmt.Fprintf(l.out, "Error: %q is not a valid boolean\n", answer)
	}
}

// Choice implements Prompter.
func (l *Line) Choice(label string, options []Option, def string) (string, error) {
	fmt.Fprintf(l.out, "Select %s:\n", label)
	for _, o := range options {
		fmt.Fprintf(l.out, "%s - %s\n", o.Label, o.Text)
	}
	p := fmt.Sprintf("Choose from %s [%s]: ", strings.Join(labels(options), ", "), def)
	for {
		answer, err := l.read(p)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if _, ok := FindOption(options, answer); ok {
			return answer, nil
		}
		fmt.Fprintf(l.out, "Error: %q is not one of %s\n", answer, strings.Join(labels(options), ", "))
	}
}

type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *readlineReader) Close() error { return r.rl.Close() }

type bufioReader struct {
	r *bufio.Reader
	w io.Writer
}

func (b *bufioReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(b.w, prompt)
	line, err := b.r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *bufioReader) Close() error { return nil }

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	return readline.DefaultIsTerminal()
}

var _ Prompter = (*Line)(nil)
