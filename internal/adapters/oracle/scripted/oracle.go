// Package scripted replays canned oracle replies. It backs offline dry runs
// (sw run --script) and deterministic tests of the deliberation loop.
package scripted

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
	"gopkg.in/yaml.v3"
)

var ErrScriptExhausted = errors.New("oracle script exhausted")

// Step is one canned reply. When is matched as a substring of the last
// message of the history; an empty When matches anything. Sticky steps are
// never consumed.
type Step struct {
	When   string `yaml:"when,omitempty"`
	Reply  string `yaml:"reply"`
	Error  string `yaml:"error,omitempty"`
	Sticky bool   `yaml:"sticky,omitempty"`
}

type scriptFile struct {
	Steps []Step `yaml:"steps"`
}

// Call records what the oracle was asked.
type Call struct {
	History []domain.Message
	Options domain.CompletionOptions
	Reply   string
}

type Oracle struct {
	mu    sync.Mutex
	steps []Step
	used  []bool
	calls []Call
}

var _ ports.Oracle = (*Oracle)(nil)

func New(steps ...Step) *Oracle {
	return &Oracle{steps: steps, used: make([]bool, len(steps))}
}

// Replies builds a strictly sequential script.
func Replies(replies ...string) *Oracle {
	steps := make([]Step, 0, len(replies))
	for _, reply := range replies {
		steps = append(steps, Step{Reply: reply})
	}
	return New(steps...)
}

func Parse(data []byte) (*Oracle, error) {
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode oracle script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, errors.New("oracle script has no steps")
	}
	return New(file.Steps...), nil
}

func Load(path string) (*Oracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read oracle script: %w", err)
	}
	return Parse(data)
}

func (o *Oracle) Complete(ctx context.Context, history []domain.Message, opts domain.CompletionOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	last := ""
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for i, step := range o.steps {
		if o.used[i] || !strings.Contains(last, step.When) {
			continue
		}
		if !step.Sticky {
			o.used[i] = true
		}

		o.calls = append(o.calls, Call{History: history, Options: opts, Reply: step.Reply})
		if step.Error != "" {
			return "", errors.New(step.Error)
		}
		return step.Reply, nil
	}

	o.calls = append(o.calls, Call{History: history, Options: opts})
	return "", ErrScriptExhausted
}

func (o *Oracle) Calls() []Call {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Call, len(o.calls))
	copy(out, o.calls)
	return out
}

// Remaining counts the non-sticky steps not replayed yet.
func (o *Oracle) Remaining() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for i, step := range o.steps {
		if !o.used[i] && !step.Sticky {
			n++
		}
	}
	return n
}
