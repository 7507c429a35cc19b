package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestConsole_ReadLine(t *testing.T) {
	c := New(strings.NewReader("zl\r\n  \n2\nlast"), io.Discard)
	ctx := context.Background()

	for _, want := range []string{"zl", "  ", "2", "last"} {
		got, err := c.ReadLine(ctx)
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}

	for i := 0; i < 2; i++ {
		if _, err := c.ReadLine(ctx); !errors.Is(err, io.EOF) {
			t.Errorf("ReadLine at end = %v, want io.EOF", err)
		}
	}
}

func TestConsole_ReadLineCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := New(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.ReadLine(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ReadLine = %v, want deadline exceeded", err)
	}
}

func TestConsole_Discard(t *testing.T) {
	c := New(strings.NewReader("stale\nstale\n"), io.Discard)

	deadline := time.Now().Add(2 * time.Second)
	for len(c.lines) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("reader never buffered the input")
		}
		time.Sleep(time.Millisecond)
	}

	if n := c.Discard(); n != 2 {
		t.Errorf("Discard = %d, want 2", n)
	}
	if _, err := c.ReadLine(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("ReadLine after Discard = %v, want io.EOF", err)
	}
}

func TestConsole_Printf(t *testing.T) {
	var buf bytes.Buffer
	c := New(strings.NewReader(""), &buf)
	c.Printf("%d. %s\n", 1, "泽丽")
	if buf.String() != "1. 泽丽\n" {
		t.Errorf("output = %q", buf.String())
	}
}
