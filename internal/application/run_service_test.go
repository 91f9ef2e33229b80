package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/smartworker/internal/adapters/oracle/scripted"
	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func supervisorFactory(oracle *scripted.Oracle) SupervisorFactory {
	return func() *Supervisor {
		return supervisorFixture{oracle: oracle}.build()
	}
}

func TestRunServiceExecuteSavesCompletedRun(t *testing.T) {
	repo := mocks.NewMockRunRepository(t)
	clock := mocks.NewMockClock(t)
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)
	clock.EXPECT().Now().Return(started).Once()
	clock.EXPECT().Now().Return(finished).Once()

	oracle := scripted.Replies("Plan: step1\nstep2", "/finish_contract", "/finish_contract", "/finish_contract", "yes")
	service := NewRunService(repo, clock, supervisorFactory(oracle), nil)
	service.newID = func() domain.RunID { return "run-fixed" }

	repo.EXPECT().Save(mockAnyContext(), mock.MatchedBy(func(run domain.Run) bool {
		return run.ID == "run-fixed" &&
			run.State == domain.StateDone &&
			run.StartedAt.Equal(started) &&
			run.FinishedAt.Equal(finished) &&
			len(run.Plan) == 2
	})).Return(nil)

	run, err := service.Execute(context.Background(), obstacleContract)
	require.NoError(t, err)
	assert.Equal(t, domain.RunID("run-fixed"), run.ID)
	assert.Equal(t, 90*time.Second, run.Duration())
}

func TestRunServiceExecuteSavesFailedRun(t *testing.T) {
	repo := mocks.NewMockRunRepository(t)
	service := NewRunService(repo, nil, supervisorFactory(scripted.Replies()), nil)

	repo.EXPECT().Save(mockAnyContext(), mock.MatchedBy(func(run domain.Run) bool {
		return run.State == domain.StateFailed && run.Error != "" && run.ID != ""
	})).Return(nil)

	run, err := service.Execute(context.Background(), "[]")
	require.ErrorIs(t, err, domain.ErrMalformedContract)
	assert.Equal(t, domain.StateFailed, run.State)
}

func TestRunServiceExecuteJoinsSaveError(t *testing.T) {
	repo := mocks.NewMockRunRepository(t)
	service := NewRunService(repo, nil, supervisorFactory(scripted.Replies()), nil)

	saveErr := errors.New("disk full")
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)

	_, err := service.Execute(context.Background(), "[]")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedContract)
	assert.ErrorIs(t, err, saveErr)
}

func TestRunServicePlan(t *testing.T) {
	service := NewRunService(nil, nil, supervisorFactory(scripted.Replies("read the file\n\nwrite the csv\n")), nil)

	prompt, plan, err := service.Plan(context.Background(), obstacleContract)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Extract the obstacles")
	assert.Equal(t, []string{"read the file", "write the csv"}, plan)

	_, _, err = service.Plan(context.Background(), "{}")
	assert.ErrorIs(t, err, domain.ErrMalformedContract)
}

func TestRunServiceGetWrapsNotFound(t *testing.T) {
	repo := mocks.NewMockRunRepository(t)
	repo.EXPECT().GetByID(mockAnyContext(), domain.RunID("missing")).Return(domain.Run{}, domain.ErrRunNotFound)
	service := NewRunService(repo, nil, nil, nil)

	_, err := service.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.ErrorContains(t, err, "get run by id")
}

func TestRunServiceListNewestFirst(t *testing.T) {
	repo := mocks.NewMockRunRepository(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.EXPECT().List(mockAnyContext()).Return([]domain.Run{
		{ID: "old", StartedAt: base},
		{ID: "new", StartedAt: base.Add(2 * time.Hour)},
		{ID: "mid", StartedAt: base.Add(time.Hour)},
	}, nil)
	service := NewRunService(repo, nil, nil, nil)

	runs, err := service.List(context.Background())
	require.NoError(t, err)

	ids := make([]domain.RunID, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	assert.Equal(t, []domain.RunID{"new", "mid", "old"}, ids)
}
