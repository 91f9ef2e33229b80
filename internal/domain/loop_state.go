package domain

import "fmt"

type LoopState string

const (
	StateInit          LoopState = "init"
	StateDeliberate    LoopState = "deliberate"
	StateDispatch      LoopState = "dispatch"
	StateAwaitingInput LoopState = "awaiting_input"
	StateDone          LoopState = "done"
	StateExhausted     LoopState = "exhausted"
	StateFailed        LoopState = "failed"
)

var loopTransitions = map[LoopState][]LoopState{
	StateInit:          {StateDeliberate, StateFailed},
	StateDeliberate:    {StateDispatch, StateExhausted, StateFailed},
	StateDispatch:      {StateDeliberate, StateAwaitingInput, StateDone, StateExhausted, StateFailed},
	StateAwaitingInput: {StateDeliberate, StateFailed},
}

// IsTerminal reports whether the loop can no longer move.
func (s LoopState) IsTerminal() bool {
	switch s {
	case StateDone, StateExhausted, StateFailed:
		return true
	default:
		return false
	}
}

// IsQuiescent reports whether the loop is resting: finished or waiting on
// an operator.
func (s LoopState) IsQuiescent() bool {
	return s == StateDone || s == StateAwaitingInput
}

func CanTransition(from, to LoopState) bool {
	for _, allowed := range loopTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to against the transition table.
func Transition(from, to LoopState) (LoopState, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}
