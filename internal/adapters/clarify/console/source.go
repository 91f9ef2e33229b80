// Package console asks the operator for clarification on a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bnema/smartworker/internal/ports"
)

var ErrNoAnswer = errors.New("no clarification answer")

// Source prints the request to out and reads one non-empty line from in.
// Reading happens on a background goroutine so a canceled context unblocks
// Await even while the reader is stuck.
type Source struct {
	out    io.Writer
	lines  chan string
	errs   chan error
	start  sync.Once
	reader *bufio.Scanner
}

var _ ports.ClarificationSource = (*Source)(nil)

func New(in io.Reader, out io.Writer) *Source {
	return &Source{
		out:    out,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		reader: bufio.NewScanner(in),
	}
}

func (s *Source) Await(ctx context.Context, request string) (string, error) {
	if s.out != nil {
		if _, err := fmt.Fprintf(s.out, "The contract was returned for clarification:\n%s\nYour answer: ", strings.TrimSpace(request)); err != nil {
			return "", fmt.Errorf("prompt for clarification: %w", err)
		}
	}

	s.start.Do(func() { go s.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", s.readErr()
		}
		return line, nil
	}
}

func (s *Source) scan() {
	defer close(s.lines)

	for s.reader.Scan() {
		line := strings.TrimSpace(s.reader.Text())
		if line == "" {
			continue
		}
		s.lines <- line
	}
	if err := s.reader.Err(); err != nil {
		s.errs <- err
	}
}

func (s *Source) readErr() error {
	select {
	case err := <-s.errs:
		return fmt.Errorf("read clarification: %w", err)
	default:
		return ErrNoAnswer
	}
}
