package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupervisorFactory builds a fresh supervisor for every execution.
type SupervisorFactory func() *Supervisor

type RunService struct {
	runs          ports.RunRepository
	clock         ports.Clock
	newSupervisor SupervisorFactory
	newID         func() domain.RunID
	logger        *zap.Logger
}

func NewRunService(runs ports.RunRepository, clock ports.Clock, factory SupervisorFactory, logger *zap.Logger) *RunService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RunService{
		runs:          runs,
		clock:         clock,
		newSupervisor: factory,
		newID:         func() domain.RunID { return domain.RunID(uuid.NewString()) },
		logger:        logger,
	}
}

// Execute runs the contract and stores the outcome, failed runs included.
func (s *RunService) Execute(ctx context.Context, rawContract string) (domain.Run, error) {
	id := s.newID()
	started := s.clock.Now()
	s.logger.Info("run started", zap.String("run_id", string(id)))

	run, execErr := s.newSupervisor().Execute(ctx, id, rawContract)
	run.ID = id
	run.StartedAt = started
	run.FinishedAt = s.clock.Now()

	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			saveErr := fmt.Errorf("save run: %w", err)
			if execErr != nil {
				return run, errors.Join(execErr, saveErr)
			}
			return run, saveErr
		}
	}

	s.logger.Info("run finished",
		zap.String("run_id", string(id)),
		zap.String("state", string(run.State)),
		zap.Duration("duration", run.Duration()),
	)
	return run, execErr
}

// Plan translates the contract and returns the plan the oracle proposes for
// it, without deliberating.
func (s *RunService) Plan(ctx context.Context, rawContract string) (string, []string, error) {
	prompt, err := Translate(rawContract)
	if err != nil {
		return "", nil, fmt.Errorf("translate contract: %w", err)
	}

	plan, err := s.newSupervisor().FormPlan(ctx, taskPrompt(prompt))
	if err != nil {
		return prompt, nil, err
	}

	return prompt, plan, nil
}

func (s *RunService) Get(ctx context.Context, id domain.RunID) (domain.Run, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return domain.Run{}, fmt.Errorf("get run by id: %w", err)
	}
	return run, nil
}

// List returns stored runs, most recent first.
func (s *RunService) List(ctx context.Context) ([]domain.Run, error) {
	runs, err := s.runs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}
