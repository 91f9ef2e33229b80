package application

import (
	"context"
	"fmt"

	"github.com/bnema/smartworker/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultExpertCount = 3

// ReviewFunc produces fresh feedback for an action that has to be revised.
type ReviewFunc func(ctx context.Context, action string) string

type ExpertPool struct {
	experts      []*Expert
	dispatcher   *Dispatcher
	maxRevisions int
	concurrent   bool
	logger       *zap.Logger
}

type PoolOptions struct {
	MaxRevisions int
	// Concurrent fans the first oracle call of every expert out in parallel.
	// Revisions and feedback stay sequential in expert order.
	Concurrent bool
}

func NewExpertPool(experts []*Expert, dispatcher *Dispatcher, opts PoolOptions, logger *zap.Logger) *ExpertPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRevisions <= 0 {
		opts.MaxRevisions = 1
	}

	return &ExpertPool{
		experts:      experts,
		dispatcher:   dispatcher,
		maxRevisions: opts.MaxRevisions,
		concurrent:   opts.Concurrent,
		logger:       logger,
	}
}

func (p *ExpertPool) Size() int {
	return len(p.experts)
}

type firstPass struct {
	reply    Reply
	feedback string
	ready    bool
}

// Propose collects one proposal per expert for input. Proposals are ordered
// by expert index whatever the arrival order of oracle replies.
func (p *ExpertPool) Propose(ctx context.Context, input string, past *domain.ResponseSet, review ReviewFunc) (domain.ProposalSet, error) {
	passes, err := p.firstPass(ctx, input)
	if err != nil {
		return nil, err
	}

	proposals := make(domain.ProposalSet, 0, len(p.experts))
	for i, expert := range p.experts {
		proposal := p.settle(ctx, expert, passes[i], past, review)
		proposals = append(proposals, proposal)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return proposals, nil
}

func (p *ExpertPool) firstPass(ctx context.Context, input string) ([]firstPass, error) {
	passes := make([]firstPass, len(p.experts))

	if !p.concurrent {
		for i, expert := range p.experts {
			reply, feedback := expert.Converse(ctx, input)
			passes[i] = firstPass{reply: reply, feedback: feedback, ready: true}
		}
		return passes, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, expert := range p.experts {
		g.Go(func() error {
			passes[i] = firstPass{reply: expert.agent.Ask(gctx, input)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect expert replies: %w", err)
	}

	return passes, ctx.Err()
}

func (p *ExpertPool) settle(ctx context.Context, expert *Expert, pass firstPass, past *domain.ResponseSet, review ReviewFunc) domain.Proposal {
	reply := pass.reply
	revisions := 0
	revised := false

	for {
		reason := rejectionReason(reply, past)
		if reason == "" {
			break
		}
		if revisions >= p.maxRevisions {
			p.logger.Warn("expert demoted",
				zap.Int("expert", expert.Index()),
				zap.Int("revisions", revisions),
				zap.String("reason", reason),
				zap.Error(domain.ErrMaxRevisionsExceeded),
			)
			return domain.Proposal{Expert: expert.Index(), Action: reply.Text, Revisions: revisions, Demoted: true}
		}

		feedback := reply.Text
		if review != nil {
			feedback = review(ctx, reply.Text)
		}
		reply = expert.Revise(ctx, revisionPrompt(reason, feedback))
		revisions++
		revised = true
		p.logger.Debug("expert revised", zap.Int("expert", expert.Index()), zap.Int("revisions", revisions))
	}

	feedback := pass.feedback
	if revised || !pass.ready {
		feedback = p.dispatcher.Feedback(ctx, reply.Text)
	}

	return domain.Proposal{
		Expert:    expert.Index(),
		Action:    reply.Text,
		Feedback:  feedback,
		Revisions: revisions,
	}
}

func rejectionReason(reply Reply, past *domain.ResponseSet) string {
	switch {
	case reply.Failed:
		return "oracle failure"
	case past != nil && past.Contains(reply.Text):
		return "repeated an earlier action"
	default:
		return ""
	}
}
