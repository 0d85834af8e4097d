package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/table"
)

var (
	ErrCanceled = errors.New("prompt: canceled by user")
	ErrNoValues = errors.New("prompt: column has no values")
)

// LineReader is the part of *readline.Instance the prompter needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(p string)
}

// Prompter asks questions until it gets a valid answer or the user quits.
type Prompter struct {
	rl   LineReader
	out  io.Writer
	hist *History
}

func New(rl LineReader, out io.Writer) *Prompter {
	return &Prompter{rl: rl, out: out}
}

// WithHistory records every non-empty answer in h.
func (p *Prompter) WithHistory(h *History) *Prompter {
	p.hist = h
	return p
}

// NewTerminal opens a readline instance on the process terminal with h
// preloaded, so up-arrow recalls earlier answers. Close it when done.
func NewTerminal(h *History) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "strata> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}
	return rl, nil
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// ask reads one trimmed line. quit/cancel, EOF and Ctrl-C cancel.
func (p *Prompter) ask(label string) (string, error) {
	p.rl.SetPrompt(label)
	line, err := p.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			p.Printf("Operation canceled by the user.\n")
			return "", ErrCanceled
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "quit", "cancel":
		p.Printf("Operation canceled by the user.\n")
		return "", ErrCanceled
	}
	if err := p.hist.Append(line); err != nil {
		return "", fmt.Errorf("prompt: save history: %w", err)
	}
	return line, nil
}

// Column asks for the name of an existing column.
func (p *Prompter) Column(t *table.Table, label string) (string, error) {
	names := t.Schema.Names()
	for {
		ans, err := p.ask(fmt.Sprintf("%s (options: %v, or type 'quit' to cancel): ", label, names))
		if err != nil {
			return "", err
		}
		if t.Schema.Index(ans) >= 0 {
			return ans, nil
		}
		p.Printf("Invalid column selected. Please choose from the available columns.\n")
	}
}

// Value asks for one of the column's present values and returns it typed
// like the column.
func (p *Prompter) Value(t *table.Table, column string) (any, error) {
	values, err := t.Distinct(column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		p.Printf("No values found in column '%s'.\n", column)
		return nil, fmt.Errorf("%w: %q", ErrNoValues, column)
	}
	typ := t.Schema.Cols[t.Schema.Index(column)].Type

	shown := make([]string, len(values))
	for i, v := range values {
		shown[i] = record.FormatValue(v)
	}
	for {
		ans, err := p.ask(fmt.Sprintf("Enter a %s to select (options: %v, or type 'quit' to cancel): ", column, shown))
		if err != nil {
			return nil, err
		}
		v, err := record.ParseValue(typ, ans)
		if err != nil || v == nil {
			p.Printf("Invalid type. Please enter a valid %s value.\n", typ)
			continue
		}
		for _, have := range values {
			if record.Equal(have, v) {
				return v, nil
			}
		}
		p.Printf("Invalid value selected. Please choose from the available values within this column.\n")
	}
}

// PositiveInt asks for an integer > 0.
func (p *Prompter) PositiveInt(label string) (int, error) {
	for {
		ans, err := p.ask(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(ans)
		if err != nil || n <= 0 {
			p.Printf("Please enter a positive whole number.\n")
			continue
		}
		return n, nil
	}
}

// YesNo asks a y/n question.
func (p *Prompter) YesNo(label string) (bool, error) {
	for {
		ans, err := p.ask(label)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(ans) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.Printf("Please answer 'y' or 'n'.\n")
	}
}

// Text asks for free text, falling back to def on an empty answer.
func (p *Prompter) Text(label, def string) (string, error) {
	ans, err := p.ask(label)
	if err != nil {
		return "", err
	}
	if ans == "" {
		return def, nil
	}
	return ans, nil
}
