// Package queue is a clarification source fed programmatically, for embedding
// the loop in another process or driving it from tests.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/smartworker/internal/ports"
)

var ErrClosed = errors.New("clarification queue closed")

type Source struct {
	answers  chan string
	requests chan string
	once     sync.Once
	done     chan struct{}
}

var _ ports.ClarificationSource = (*Source)(nil)

// New creates a queue holding up to capacity unanswered replies.
func New(capacity int) *Source {
	if capacity < 0 {
		capacity = 0
	}
	return &Source{
		answers:  make(chan string, capacity),
		requests: make(chan string, 16),
		done:     make(chan struct{}),
	}
}

// Submit queues an answer for the next Await.
func (s *Source) Submit(ctx context.Context, answer string) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	select {
	case s.answers <- answer:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Requests publishes every clarification request. Requests are dropped when
// nobody drains the channel.
func (s *Source) Requests() <-chan string {
	return s.requests
}

func (s *Source) Await(ctx context.Context, request string) (string, error) {
	select {
	case s.requests <- request:
	default:
	}

	select {
	case answer := <-s.answers:
		return answer, nil
	case <-s.done:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Source) Close() {
	s.once.Do(func() { close(s.done) })
}
