package domain

import "time"

type RunID string

// Run is the persisted summary of one execution. It deliberately carries no
// conversation transcript.
type Run struct {
	ID            RunID
	State         LoopState
	Prompt        string
	Plan          []string
	Trail         []string
	Actions       []string
	Clarification []string
	Rounds        int
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}

func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
