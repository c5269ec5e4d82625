package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Prompt printed by the line console
const Prompt = ". "

// Simple console: plain lines on a writer, used without the terminal UI
type Simple struct {
	mu  sync.Mutex
	out io.Writer
}

// NewSimple returns a console writing to out
func NewSimple(out io.Writer) *Simple {
	return &Simple{out: out}
}

// WriteConsole displays a string on the console, empty lines are skipped
func (c *Simple) WriteConsole(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(msg, "\n") {
		if line == "" {
			continue
		}
		if _, err := io.WriteString(c.out, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Loop reads commands from in until quit or end of input
func (c *Simple) Loop(in io.Reader, interp *Interpreter) error {
	scanner := bufio.NewScanner(in)
	for {
		c.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := interp.Execute(scanner.Text()); errors.Is(err, ErrQuit) {
			return nil
		}
	}
}

func (c *Simple) prompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, Prompt)
}
