// Package console is the line-oriented prompt used while selecting a hero.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console reads lines from an input stream on a background goroutine so a
// read can be abandoned when its context ends.
type Console struct {
	out   io.Writer
	outMu sync.Mutex
	lines chan string

	errMu sync.Mutex
	err   error
}

// New starts reading in.
func New(in io.Reader, out io.Writer) *Console {
	c := &Console{out: out, lines: make(chan string, 16)}
	go c.read(in)
	return c
}

func (c *Console) read(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		c.lines <- strings.TrimRight(scanner.Text(), "\r")
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()
	close(c.lines)
}

// ReadLine returns the next line without its terminator. It returns io.EOF
// once the input is exhausted and ctx.Err() if ctx ends first.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			c.errMu.Lock()
			defer c.errMu.Unlock()
			return "", c.err
		}
		return line, nil
	}
}

// Discard drops lines typed before the current prompt, such as keys
// pressed while the game had focus. It returns how many were dropped.
func (c *Console) Discard() int {
	n := 0
	for {
		select {
		case _, ok := <-c.lines:
			if !ok {
				// Keep EOF visible to the next ReadLine.
				return n
			}
			n++
		default:
			return n
		}
	}
}

// Printf writes formatted text to the output.
func (c *Console) Printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
