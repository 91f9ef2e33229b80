package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/stretchr/testify/mock"
)

const obstacleContract = `[
  {
    "Action": {
      "Prompt": "Extract the obstacles and aids found in the interview transcript.",
      "OutputColumns": [
        {"name": "type", "description": "O for obstacle, A for aid"},
        {"name": "quote", "description": "verbatim sentence"}
      ],
      "OutputFormat": "csv"
    },
    "Validation": "Spot check five rows.",
    "WorkerRequirements": {"Skills": ["reading"]},
    "ValidatorRequirements": {"Certifications": []},
    "ContractCompleteness": {
      "AcceptanceCriteria": "Every obstacle and aid is listed",
      "ErrorAcceptance": "5%",
      "AmbiguityAcceptance": "low"
    },
    "ContractFail": "Missing rows.",
    "ContractValue": {"Budget": "10"}
  }
]`

// memWorkspace keeps written files in memory and returns canned outputs for
// run requests.
type memWorkspace struct {
	mu      sync.Mutex
	files   map[string]string
	outputs map[string]string
	runs    []string
}

func newMemWorkspace() *memWorkspace {
	return &memWorkspace{files: map[string]string{}, outputs: map[string]string{}}
}

func (w *memWorkspace) WriteFile(_ context.Context, name string, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[name] = content
	return nil
}

func (w *memWorkspace) RunFile(_ context.Context, name string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.runs = append(w.runs, name)
	if _, ok := w.files[name]; !ok {
		return "", fmt.Errorf("%s: no such file", name)
	}
	return w.outputs[name], nil
}

// queueClarifier answers clarification requests from a fixed list.
type queueClarifier struct {
	answers  []string
	requests []string
}

func (q *queueClarifier) Await(_ context.Context, request string) (string, error) {
	q.requests = append(q.requests, request)
	if len(q.answers) == 0 {
		return "", fmt.Errorf("no answer queued")
	}
	answer := q.answers[0]
	q.answers = q.answers[1:]
	return answer, nil
}

func lastUser(history []domain.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content
		}
	}
	return ""
}

func mockAnyContext() interface{} {
	return mock.Anything
}
