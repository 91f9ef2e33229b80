package application

import (
	"context"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
	"go.uber.org/zap"
)

// Reply is an oracle answer. Oracle failures are not returned as errors:
// their description becomes the text and Failed is set.
type Reply struct {
	Text   string
	Failed bool
}

// Conversant is the capability shared by the supervisor and the experts.
type Conversant interface {
	Converse(ctx context.Context, prompt string) (Reply, string)
	Revise(ctx context.Context, feedback string) Reply
}

// Agent owns a private conversation and talks to the oracle through it.
type Agent struct {
	name   string
	oracle ports.Oracle
	opts   domain.CompletionOptions
	memory *domain.History
	logger *zap.Logger
}

func NewAgent(name string, oracle ports.Oracle, opts domain.CompletionOptions, logger *zap.Logger, primer ...domain.Message) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		name:   name,
		oracle: oracle,
		opts:   opts,
		memory: domain.NewHistory(primer...),
		logger: logger.With(zap.String("agent", name)),
	}
}

func (a *Agent) Name() string {
	return a.name
}

// Ask appends prompt to memory, sends the whole memory and records the reply.
func (a *Agent) Ask(ctx context.Context, prompt string) Reply {
	a.memory.Append(domain.RoleUser, prompt+orchestratorReminder)

	text, err := a.oracle.Complete(ctx, a.memory.Messages(), a.opts)
	reply := Reply{Text: text}
	if err != nil {
		a.logger.Warn("oracle call failed", zap.Error(err))
		reply = Reply{Text: err.Error(), Failed: true}
	}

	a.memory.Append(domain.RoleAssistant, reply.Text)
	a.logger.Debug("oracle replied", zap.Int("history", a.memory.Len()), zap.Bool("failed", reply.Failed))
	return reply
}

// Note records a message without querying the oracle.
func (a *Agent) Note(role domain.Role, content string) {
	a.memory.Append(role, content)
}

func (a *Agent) History() []domain.Message {
	return a.memory.Messages()
}

// Expert is one voting member of the pool.
type Expert struct {
	index      int
	agent      *Agent
	dispatcher *Dispatcher
}

var _ Conversant = (*Expert)(nil)

func NewExpert(index int, agent *Agent, dispatcher *Dispatcher) *Expert {
	return &Expert{index: index, agent: agent, dispatcher: dispatcher}
}

func (e *Expert) Index() int {
	return e.index
}

func (e *Expert) Converse(ctx context.Context, prompt string) (Reply, string) {
	reply := e.agent.Ask(ctx, prompt)
	return reply, e.dispatcher.Feedback(ctx, reply.Text)
}

func (e *Expert) Revise(ctx context.Context, feedback string) Reply {
	return e.agent.Ask(ctx, feedback)
}

func (e *Expert) History() []domain.Message {
	return e.agent.History()
}
