package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, runsPath string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("runs.path", runsPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "runs.toml"))
	started := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	first := domain.Run{
		ID:            "run-1",
		State:         domain.StateDone,
		Prompt:        "Extract obstacles.",
		Plan:          []string{"read", "write"},
		Trail:         []string{"Written to out.csv", "/finish_contract"},
		Actions:       []string{"/write_file out.csv a,b", "/finish_contract"},
		Clarification: []string{"use interview.txt"},
		Rounds:        2,
		StartedAt:     started,
		FinishedAt:    started.Add(42 * time.Second),
	}
	second := domain.Run{
		ID:         "run-2",
		State:      domain.StateFailed,
		Prompt:     "Broken.",
		Error:      "form plan: invalid api key",
		StartedAt:  started.Add(time.Hour),
		FinishedAt: started.Add(time.Hour),
	}

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	got, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	runs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Run{first, second}, runs)
}

func TestRepositorySaveReplacesExistingRun(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "runs.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.Run{ID: "run-1", State: domain.StateDeliberate}))
	require.NoError(t, repo.Save(context.Background(), domain.Run{ID: "run-1", State: domain.StateDone, Rounds: 3}))

	runs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.StateDone, runs[0].State)
	assert.Equal(t, 3, runs[0].Rounds)
}

func TestRepositoryKeepsMostRecentRuns(t *testing.T) {
	t.Parallel()

	config := viper.New()
	config.Set("runs.path", filepath.Join(t.TempDir(), "runs.toml"))
	config.Set("runs.keep", 2)
	repo, err := NewRepository(config)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Save(context.Background(), domain.Run{
			ID:        domain.RunID("run-" + strconv.Itoa(i)),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := repo.List(context.Background())
	require.NoError(t, err)
	ids := []domain.RunID{}
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	assert.ElementsMatch(t, []domain.RunID{"run-2", "run-3"}, ids)
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.Run{ID: "run-1", State: domain.StateDone}))

	runsPath := filepath.Join(homeDir, ".smartworker", "runs.toml")
	info, err := os.Stat(runsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "runs.toml"))

	runs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = repo.GetByID(context.Background(), "run-1")
	require.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	runsPath := filepath.Join(t.TempDir(), "runs.toml")
	require.NoError(t, os.WriteFile(runsPath, []byte("runs = ["), 0o600))

	repo := newTestRepository(t, runsPath)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode runs file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "runs.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.Run{ID: "run-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveBothRuns(t *testing.T) {
	t.Parallel()

	runsPath := filepath.Join(t.TempDir(), "runs.toml")
	repoA := newTestRepository(t, runsPath)
	repoB := newTestRepository(t, runsPath)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repoA.Save(context.Background(), domain.Run{ID: domain.RunID("run-a-" + strconv.Itoa(i))})
		}
	}()

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repoB.Save(context.Background(), domain.Run{ID: domain.RunID("run-b-" + strconv.Itoa(i))})
		}
	}()

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	runs, err := repoA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, perRepoWrites*2)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	runsPath := filepath.Join(t.TempDir(), "runs.toml")
	repo := newTestRepository(t, runsPath)

	require.NoError(t, repo.Save(context.Background(), domain.Run{ID: "run-1", State: domain.StateDone}))

	data, err := os.ReadFile(runsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "state = 'done'")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	runsPath := filepath.Join(t.TempDir(), "runs.toml")
	require.NoError(t, os.WriteFile(runsPath, []byte(strings.Join([]string{
		"version = 999",
		"",
		"runs = []",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, runsPath)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported runs schema version")
}
