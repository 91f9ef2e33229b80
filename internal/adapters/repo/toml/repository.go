package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	runsPathKey     = "runs.path"
	runsKeepKey     = "runs.keep"
	runsFileMode    = 0o600
	runsDirMode     = 0o700
	runsConfigDir   = ".smartworker"
	runsConfigFile  = "runs.toml"
	tempFilePattern = ".runs-*.toml.tmp"
)

// Repository stores run summaries in a single TOML file. When keep is
// positive only the most recent runs are retained.
type Repository struct {
	runsPath string
	keep     int
	mu       *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.RunRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(runsPathKey, filepath.Join(homeDir, runsConfigDir, runsConfigFile))

	runsPath := cfg.GetString(runsPathKey)
	if runsPath == "" {
		return nil, errors.New("runs path is empty")
	}
	runsPath, err = normalizeRunsPath(runsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{runsPath: runsPath, keep: cfg.GetInt(runsKeepKey), mu: lockForPath(runsPath)}, nil
}

func (r *Repository) Save(ctx context.Context, run domain.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(run)
	updated := false
	for i := range file.Runs {
		if file.Runs[i].ID == encoded.ID {
			file.Runs[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Runs = append(file.Runs, encoded)
	}
	file.Runs = r.prune(file.Runs)

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.RunID) (domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return domain.Run{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Run{}, err
	}

	for _, entry := range file.Runs {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Run{}, domain.ErrRunNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	runs := make([]domain.Run, 0, len(file.Runs))
	for _, entry := range file.Runs {
		runs = append(runs, fromSchema(entry))
	}

	return runs, nil
}

// prune drops the oldest runs beyond the retention limit.
func (r *Repository) prune(runs []runSchema) []runSchema {
	if r.keep <= 0 || len(runs) <= r.keep {
		return runs
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return parseTime(runs[i].StartedAt).Before(parseTime(runs[j].StartedAt))
	})
	return runs[len(runs)-r.keep:]
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.runsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read runs file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode runs file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeRunsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve runs path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.runsPath), runsDirMode); err != nil {
		return fmt.Errorf("create runs directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode runs file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.runsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp runs file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp runs file: %w", err)
	}

	if err := tempFile.Chmod(runsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp runs file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp runs file: %w", err)
	}

	if err := os.Rename(tempName, r.runsPath); err != nil {
		return fmt.Errorf("replace runs file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(run domain.Run) runSchema {
	return runSchema{
		ID:            string(run.ID),
		State:         string(run.State),
		Prompt:        run.Prompt,
		Rounds:        run.Rounds,
		Error:         run.Error,
		StartedAt:     formatTime(run.StartedAt),
		FinishedAt:    formatTime(run.FinishedAt),
		Plan:          run.Plan,
		Trail:         run.Trail,
		Actions:       run.Actions,
		Clarification: run.Clarification,
	}
}

func fromSchema(entry runSchema) domain.Run {
	return domain.Run{
		ID:            domain.RunID(entry.ID),
		State:         domain.LoopState(entry.State),
		Prompt:        entry.Prompt,
		Rounds:        entry.Rounds,
		Error:         entry.Error,
		StartedAt:     parseTime(entry.StartedAt),
		FinishedAt:    parseTime(entry.FinishedAt),
		Plan:          entry.Plan,
		Trail:         entry.Trail,
		Actions:       entry.Actions,
		Clarification: entry.Clarification,
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
