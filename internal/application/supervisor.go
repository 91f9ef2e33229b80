package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
	"go.uber.org/zap"
)

type Budget struct {
	MaxRounds        int
	MaxRevisions     int
	MaxPlanSteps     int
	MaxSubSteps      int
	MaxPlanRevisions int
}

func DefaultBudget() Budget {
	return Budget{
		MaxRounds:        32,
		MaxRevisions:     3,
		MaxPlanSteps:     64,
		MaxSubSteps:      16,
		MaxPlanRevisions: 2,
	}
}

func (b Budget) withDefaults() Budget {
	d := DefaultBudget()
	if b.MaxRounds <= 0 {
		b.MaxRounds = d.MaxRounds
	}
	if b.MaxRevisions <= 0 {
		b.MaxRevisions = d.MaxRevisions
	}
	if b.MaxPlanSteps <= 0 {
		b.MaxPlanSteps = d.MaxPlanSteps
	}
	if b.MaxSubSteps <= 0 {
		b.MaxSubSteps = d.MaxSubSteps
	}
	if b.MaxPlanRevisions <= 0 {
		b.MaxPlanRevisions = d.MaxPlanRevisions
	}
	return b
}

// SupervisorConfig carries everything needed to build a fresh supervisor for
// one execution.
type SupervisorConfig struct {
	Oracle        ports.Oracle
	Workspace     ports.Workspace
	Clarification ports.ClarificationSource
	Options       domain.CompletionOptions
	Experts       int
	Concurrent    bool
	Budget        Budget
	Logger        *zap.Logger
}

// Supervisor runs the deliberation loop. It is single-use: all memory it
// builds belongs to one execution.
type Supervisor struct {
	agent      *Agent
	pool       *ExpertPool
	dispatcher *Dispatcher
	clarifier  ports.ClarificationSource
	budget     Budget
	logger     *zap.Logger

	state  domain.LoopState
	common []string
	past   *domain.ResponseSet
	run    domain.Run
}

var _ Conversant = (*Supervisor)(nil)

func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	count := cfg.Experts
	if count <= 0 {
		count = DefaultExpertCount
	}
	budget := cfg.Budget.withDefaults()

	dispatcher := NewDispatcher(cfg.Workspace, logger)
	experts := make([]*Expert, 0, count)
	for i := 0; i < count; i++ {
		agent := NewAgent(fmt.Sprintf("expert-%d", i), cfg.Oracle, cfg.Options, logger,
			domain.Message{Role: domain.RoleSystem, Content: expertInstructions})
		experts = append(experts, NewExpert(i, agent, dispatcher))
	}

	return &Supervisor{
		agent: NewAgent("supervisor", cfg.Oracle, cfg.Options, logger,
			domain.Message{Role: domain.RoleSystem, Content: supervisorInstructions}),
		pool:       NewExpertPool(experts, dispatcher, PoolOptions{MaxRevisions: budget.MaxRevisions, Concurrent: cfg.Concurrent}, logger),
		dispatcher: dispatcher,
		clarifier:  cfg.Clarification,
		budget:     budget,
		logger:     logger,
		state:      domain.StateInit,
		past:       domain.NewResponseSet(),
	}
}

func (s *Supervisor) State() domain.LoopState {
	return s.state
}

func (s *Supervisor) Converse(ctx context.Context, prompt string) (Reply, string) {
	reply := s.agent.Ask(ctx, prompt)
	return reply, s.dispatcher.Feedback(ctx, reply.Text)
}

func (s *Supervisor) Revise(ctx context.Context, feedback string) Reply {
	return s.agent.Ask(ctx, feedback)
}

// FormPlan asks the oracle for a plan and splits it into one step per
// non-empty line.
func (s *Supervisor) FormPlan(ctx context.Context, prompt string) ([]string, error) {
	reply := s.agent.Ask(ctx, prompt+planSuffix)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("form plan: %w", err)
	}
	if reply.Failed {
		return nil, fmt.Errorf("form plan: %s", reply.Text)
	}

	steps := SplitPlan(reply.Text, s.budget.MaxPlanSteps)
	if len(steps) == 0 {
		return nil, domain.ErrEmptyPlan
	}

	return steps, nil
}

func SplitPlan(text string, limit int) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	steps := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		steps = append(steps, line)
		if limit > 0 && len(steps) == limit {
			break
		}
	}
	return steps
}

// Execute drives one contract from init to a terminal or quiescent state.
// The returned run is populated even when an error is returned.
func (s *Supervisor) Execute(ctx context.Context, id domain.RunID, rawContract string) (domain.Run, error) {
	s.run = domain.Run{ID: id, State: s.state}
	log := s.logger.With(zap.String("run_id", string(id)))

	prompt, err := Translate(rawContract)
	if err != nil {
		return s.fail(log, fmt.Errorf("translate contract: %w", err))
	}
	s.run.Prompt = prompt

	plan, err := s.FormPlan(ctx, taskPrompt(prompt))
	if err != nil {
		return s.fail(log, err)
	}
	s.run.Plan = plan
	log.Info("plan formed", zap.Int("steps", len(plan)))

	if err := s.enter(log, domain.StateDeliberate); err != nil {
		return s.fail(log, err)
	}

	step := 0
	driver := ""
	pending := ""

	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return s.fail(log, err)
		}

		var input string
		switch {
		case pending != "":
			input, pending = pending, ""
		case step < len(plan):
			input = roundPrompt(plan[step], driver)
			step++
		case driver != "":
			input = driver
		default:
			return s.exhaust(log, "plan finished without completion")
		}

		if round >= s.budget.MaxRounds {
			return s.exhaust(log, "round budget spent")
		}
		s.run.Rounds = round + 1

		winner, err := s.deliberate(ctx, log.With(zap.Int("round", round+1)), input)
		if err != nil {
			return s.fail(log, err)
		}
		driver = winner.Feedback

		if err := s.enter(log, domain.StateDispatch); err != nil {
			return s.fail(log, err)
		}

		result := s.dispatch(ctx, log, winner.Action)
		switch {
		case result.complete:
			s.run.Trail = append(s.run.Trail, result.feedback)
			if err := s.enter(log, domain.StateDone); err != nil {
				return s.fail(log, err)
			}
			log.Info("contract finished", zap.Int("rounds", s.run.Rounds))
			return s.run, nil

		case result.needsInput:
			if err := s.enter(log, domain.StateAwaitingInput); err != nil {
				return s.fail(log, err)
			}
			answer, err := s.awaitClarification(ctx, winner.Action)
			if err != nil {
				return s.fail(log, err)
			}
			pending = answer
			s.run.Trail = append(s.run.Trail, answer)

		default:
			s.run.Trail = append(s.run.Trail, result.feedback)
			driver = result.feedback
		}

		if err := s.enter(log, domain.StateDeliberate); err != nil {
			return s.fail(log, err)
		}
	}
}

func (s *Supervisor) deliberate(ctx context.Context, log *zap.Logger, input string) (domain.Proposal, error) {
	s.common = append(s.common, input)
	tail := s.common[len(s.common)-1]

	proposals, err := s.pool.Propose(ctx, tail, s.past, s.reviewAction)
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("collect proposals: %w", err)
	}

	winner, votes, ok := proposals.Majority()
	if !ok {
		log.Warn("no eligible proposals, supervisor decides alone", zap.Int("experts", len(proposals)))
		reply, feedback := s.Converse(ctx, tail)
		winner = domain.Proposal{Expert: -1, Action: reply.Text, Feedback: feedback}
		votes = 0
	}

	for _, proposal := range proposals {
		if !proposal.Demoted {
			s.past.Add(proposal.Action)
		}
	}
	s.run.Actions = append(s.run.Actions, winner.Action)

	log.Info("action selected",
		zap.Int("expert", winner.Expert),
		zap.Int("votes", votes),
		zap.Int("eligible", proposals.Eligible()),
		zap.String("command", string(ParseCommand(winner.Action).Kind)),
	)
	return winner, nil
}

// reviewAction is the supervisor's fresh feedback on an action an expert
// must revise.
func (s *Supervisor) reviewAction(ctx context.Context, action string) string {
	return s.agent.Ask(ctx, actionReviewPrompt(action)).Text
}

type dispatchResult struct {
	feedback   string
	complete   bool
	needsInput bool
}

func (s *Supervisor) dispatch(ctx context.Context, log *zap.Logger, action string) dispatchResult {
	cmd := ParseCommand(action)
	log = log.With(zap.String("command", string(cmd.Kind)))

	switch cmd.Kind {
	case domain.CommandReturnContract:
		log.Info("contract returned for clarification")
		return dispatchResult{needsInput: true}

	case domain.CommandFinishContract:
		reply := s.agent.Ask(ctx, confirmationPrompt)
		if !reply.Failed && IsAffirmative(reply.Text) {
			return dispatchResult{feedback: "/" + cmd.Token, complete: true}
		}
		log.Info("completion not confirmed", zap.String("reply", reply.Text))
		return dispatchResult{feedback: "Contract not closed: " + reply.Text}

	case domain.CommandRunCode, domain.CommandWriteFile:
		return dispatchResult{feedback: s.dispatcher.Execute(ctx, cmd)}

	default:
		return dispatchResult{feedback: s.handleUnrecognizedAction(ctx, log, action)}
	}
}

// handleUnrecognizedAction works an action without a command through a
// sub-plan executed by the supervisor alone.
func (s *Supervisor) handleUnrecognizedAction(ctx context.Context, log *zap.Logger, action string) string {
	selfFeedback := s.dispatcher.Feedback(ctx, action)

	queue, err := s.FormPlan(ctx, action)
	if err != nil {
		log.Warn("sub-plan not formed", zap.Error(err))
		return selfFeedback
	}

	last := ""
	revisions := 0
	for executed := 0; len(queue) > 0 && executed < s.budget.MaxSubSteps; executed++ {
		step := queue[0]
		reply := s.agent.Ask(ctx, step)
		if !reply.Failed {
			last = reply.Text
			queue = queue[1:]
			continue
		}

		if revisions >= s.budget.MaxPlanRevisions {
			log.Warn("sub-plan abandoned", zap.String("step", step), zap.Int("revisions", revisions))
			break
		}
		revisions++
		selfFeedback = s.dispatcher.Feedback(ctx, reply.Text)
		revised, err := s.FormPlan(ctx, planRevisionPrompt(step, reply.Text))
		if err != nil {
			log.Warn("sub-plan revision failed", zap.Error(err))
			break
		}
		queue = revised
	}

	if last == "" {
		return selfFeedback
	}
	return last
}

func (s *Supervisor) awaitClarification(ctx context.Context, request string) (string, error) {
	if s.clarifier == nil {
		return "", errors.New("await clarification: no clarification source configured")
	}

	text, err := s.clarifier.Await(ctx, request)
	if err != nil {
		return "", fmt.Errorf("await clarification: %w", err)
	}

	message := clarificationPrefix + text
	s.agent.Note(domain.RoleUser, message)
	s.run.Clarification = append(s.run.Clarification, text)
	return message, nil
}

func (s *Supervisor) enter(log *zap.Logger, to domain.LoopState) error {
	next, err := domain.Transition(s.state, to)
	if err != nil {
		return err
	}
	log.Debug("state transition", zap.String("from", string(s.state)), zap.String("to", string(next)))
	s.state = next
	s.run.State = next
	return nil
}

func (s *Supervisor) fail(log *zap.Logger, err error) (domain.Run, error) {
	log.Error("execution failed", zap.String("state", string(s.state)), zap.Error(err))
	s.state = domain.StateFailed
	s.run.State = domain.StateFailed
	s.run.Error = err.Error()
	return s.run, err
}

func (s *Supervisor) exhaust(log *zap.Logger, reason string) (domain.Run, error) {
	err := fmt.Errorf("%w: %s", domain.ErrBudgetExhausted, reason)
	if _, tErr := domain.Transition(s.state, domain.StateExhausted); tErr != nil {
		return s.fail(log, errors.Join(err, tErr))
	}
	log.Warn("execution exhausted", zap.String("reason", reason), zap.Int("rounds", s.run.Rounds))
	s.state = domain.StateExhausted
	s.run.State = domain.StateExhausted
	s.run.Error = err.Error()
	return s.run, err
}

var affirmativePrefixes = []string{"yes", "y", "affirmative", "confirmed", "sure", "correct", "i am sure", "i'm sure"}

// IsAffirmative reports whether a confirmation reply agrees.
func IsAffirmative(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimLeft(normalized, "\"'`*/ ")
	for _, prefix := range affirmativePrefixes {
		if !strings.HasPrefix(normalized, prefix) {
			continue
		}
		rest := normalized[len(prefix):]
		if rest == "" || !isLetter(rest[0]) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
