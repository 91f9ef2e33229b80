package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/smartworker/internal/domain"
	portmocks "github.com/bnema/smartworker/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var agentOptions = domain.CompletionOptions{Model: "test-model", MaxTokens: 50, Temperature: 0.2}

func TestAgentAskSendsWholeHistory(t *testing.T) {
	t.Parallel()

	oracle := portmocks.NewMockOracle(t)
	oracle.EXPECT().Complete(mockAnyContext(), mock.MatchedBy(func(history []domain.Message) bool {
		return len(history) == 2 &&
			history[0].Role == domain.RoleSystem &&
			history[1].Content == "hi"+orchestratorReminder
	}), agentOptions).Return("hello", nil).Once()
	oracle.EXPECT().Complete(mockAnyContext(), mock.MatchedBy(func(history []domain.Message) bool {
		return len(history) == 4 && history[2].Content == "hello"
	}), agentOptions).Return("again", nil).Once()

	agent := NewAgent("expert-0", oracle, agentOptions, nil, domain.Message{Role: domain.RoleSystem, Content: expertInstructions})

	assert.Equal(t, Reply{Text: "hello"}, agent.Ask(context.Background(), "hi"))
	assert.Equal(t, Reply{Text: "again"}, agent.Ask(context.Background(), "more"))

	history := agent.History()
	require.Len(t, history, 5)
	assert.Equal(t, domain.RoleAssistant, history[4].Role)
	assert.Equal(t, "again", history[4].Content)
}

func TestAgentAskFoldsOracleFailureIntoReply(t *testing.T) {
	t.Parallel()

	oracle := portmocks.NewMockOracle(t)
	oracle.EXPECT().Complete(mockAnyContext(), mock.Anything, mock.Anything).Return("", errors.New("rate limited")).Once()

	agent := NewAgent("supervisor", oracle, agentOptions, nil)
	reply := agent.Ask(context.Background(), "plan please")

	assert.True(t, reply.Failed)
	assert.Equal(t, "rate limited", reply.Text)

	history := agent.History()
	require.Len(t, history, 2)
	assert.Equal(t, "rate limited", history[1].Content)
}

func TestAgentHistoryIsACopy(t *testing.T) {
	t.Parallel()

	agent := NewAgent("supervisor", portmocks.NewMockOracle(t), agentOptions, nil)
	agent.Note(domain.RoleUser, "note")

	history := agent.History()
	history[0].Content = "changed"
	assert.Equal(t, "note", agent.History()[0].Content)
}

func TestExpertConverseReturnsRunOutputAsFeedback(t *testing.T) {
	t.Parallel()

	workspace := newMemWorkspace()
	workspace.files["main.py"] = "print(42)"
	workspace.outputs["main.py"] = "42\n"

	oracle := portmocks.NewMockOracle(t)
	oracle.EXPECT().Complete(mockAnyContext(), mock.Anything, mock.Anything).Return("/run_code main.py", nil).Once()
	oracle.EXPECT().Complete(mockAnyContext(), mock.Anything, mock.Anything).Return("looks right", nil).Once()

	expert := NewExpert(2, NewAgent("expert-2", oracle, agentOptions, nil), NewDispatcher(workspace, nil))

	reply, feedback := expert.Converse(context.Background(), "count")
	assert.Equal(t, "/run_code main.py", reply.Text)
	assert.Equal(t, "42\n", feedback)
	assert.Equal(t, []string{"main.py"}, workspace.runs)

	revised := expert.Revise(context.Background(), "check it")
	assert.Equal(t, "looks right", revised.Text)
	assert.Equal(t, 2, expert.Index())
}
