package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() Task {
	return Task{
		Action: Action{
			Prompt:        "Extract obstacles.",
			OutputColumns: []OutputColumn{{Name: "type", Description: "O or A"}},
			OutputFormat:  "json",
		},
		ContractCompleteness: Completeness{AcceptanceCriteria: "Data extracted."},
	}
}

func TestContractValidate(t *testing.T) {
	t.Parallel()

	noPrompt := validTask()
	noPrompt.Action.Prompt = " "
	noColumns := validTask()
	noColumns.Action.OutputColumns = nil
	unnamedColumn := validTask()
	unnamedColumn.Action.OutputColumns = []OutputColumn{{Description: "x"}}
	noCriteria := validTask()
	noCriteria.ContractCompleteness.AcceptanceCriteria = ""

	tests := []struct {
		name     string
		contract Contract
		wantErr  string
	}{
		{name: "valid", contract: Contract{validTask()}},
		{name: "empty", contract: Contract{}, wantErr: "contract has no tasks"},
		{name: "missing prompt", contract: Contract{noPrompt}, wantErr: "Action.Prompt is required"},
		{name: "missing columns", contract: Contract{noColumns}, wantErr: "Action.OutputColumns is required"},
		{name: "unnamed column", contract: Contract{unnamedColumn}, wantErr: "OutputColumns[0].name"},
		{name: "missing acceptance criteria", contract: Contract{validTask(), noCriteria}, wantErr: "task 1"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.contract.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrMalformedContract)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestHistoryIsAppendOnlyAndCopiesOut(t *testing.T) {
	t.Parallel()

	h := NewHistory(Message{Role: RoleSystem, Content: "sys"})
	h.Append(RoleUser, "hi")

	msgs := h.Messages()
	require.Len(t, msgs, 2)
	msgs[0].Content = "mutated"

	assert.Equal(t, "sys", h.Messages()[0].Content)
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, Message{Role: RoleUser, Content: "hi"}, last)
}

func TestProposalSetMajority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		set       ProposalSet
		want      string
		wantVotes int
		wantOK    bool
	}{
		{
			name:      "clear majority",
			set:       ProposalSet{{Expert: 0, Action: "a"}, {Expert: 1, Action: "b"}, {Expert: 2, Action: "b"}},
			want:      "b",
			wantVotes: 2,
			wantOK:    true,
		},
		{
			name:      "tie goes to lowest expert",
			set:       ProposalSet{{Expert: 0, Action: "x"}, {Expert: 1, Action: "y"}, {Expert: 2, Action: "y"}, {Expert: 3, Action: "x"}},
			want:      "x",
			wantVotes: 2,
			wantOK:    true,
		},
		{
			name:      "all distinct picks first",
			set:       ProposalSet{{Expert: 0, Action: "p"}, {Expert: 1, Action: "q"}, {Expert: 2, Action: "r"}},
			want:      "p",
			wantVotes: 1,
			wantOK:    true,
		},
		{
			name:      "demoted proposals do not vote",
			set:       ProposalSet{{Expert: 0, Action: "a", Demoted: true}, {Expert: 1, Action: "a", Demoted: true}, {Expert: 2, Action: "c"}},
			want:      "c",
			wantVotes: 1,
			wantOK:    true,
		},
		{
			name:   "nothing eligible",
			set:    ProposalSet{{Expert: 0, Action: "a", Demoted: true}},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, votes, ok := tc.set.Majority()
			require.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.want, got.Action)
			assert.Equal(t, tc.wantVotes, votes)
		})
	}
}

func TestProposalSetMajorityIsStable(t *testing.T) {
	t.Parallel()

	set := ProposalSet{{Expert: 0, Action: "one"}, {Expert: 1, Action: "two"}, {Expert: 2, Action: "three"}, {Expert: 3, Action: "two"}}
	first, _, _ := set.Majority()
	for i := 0; i < 50; i++ {
		got, _, _ := set.Majority()
		assert.Equal(t, first, got)
	}
	assert.Equal(t, 1, first.Expert)
}

func TestResponseSetOnlyGrows(t *testing.T) {
	t.Parallel()

	s := NewResponseSet()
	s.Add("a")
	s.Add("a")
	s.Add("b")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
}

func TestLoopStateTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to LoopState
		ok       bool
	}{
		{StateInit, StateDeliberate, true},
		{StateDeliberate, StateDispatch, true},
		{StateDispatch, StateAwaitingInput, true},
		{StateAwaitingInput, StateDeliberate, true},
		{StateDispatch, StateDone, true},
		{StateInit, StateDone, false},
		{StateDone, StateDeliberate, false},
		{StateAwaitingInput, StateDone, false},
	}

	for _, tc := range tests {
		got, err := Transition(tc.from, tc.to)
		if tc.ok {
			require.NoError(t, err)
			assert.Equal(t, tc.to, got)
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, tc.from, got)
	}

	assert.True(t, StateDone.IsQuiescent())
	assert.True(t, StateAwaitingInput.IsQuiescent())
	assert.False(t, StateDeliberate.IsQuiescent())
	assert.True(t, StateExhausted.IsTerminal())
}
