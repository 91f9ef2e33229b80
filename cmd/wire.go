package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/smartworker/internal/adapters/clarify/console"
	"github.com/bnema/smartworker/internal/adapters/oracle/gemini"
	"github.com/bnema/smartworker/internal/adapters/oracle/openai"
	"github.com/bnema/smartworker/internal/adapters/oracle/scripted"
	tomlrepo "github.com/bnema/smartworker/internal/adapters/repo/toml"
	chainstore "github.com/bnema/smartworker/internal/adapters/secrets/chain"
	"github.com/bnema/smartworker/internal/adapters/workspace/local"
	"github.com/bnema/smartworker/internal/application"
	"github.com/bnema/smartworker/internal/config"
	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/logging"
	"github.com/bnema/smartworker/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	cfg         config.Config
	logger      *zap.Logger
	credentials *application.CredentialService
	runs        ports.RunRepository
	now         func() time.Time
}

// sessionOptions are the per-invocation overrides of a run or plan command.
type sessionOptions struct {
	scriptPath string
	experts    int
	concurrent bool
	in         io.Reader
	out        io.Writer
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire run repository: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir())
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		credentials: application.NewCredentialService(secretStore),
		runs:        repo,
		now:         time.Now,
	}, nil
}

// oracle returns the scripted oracle when a script is given, otherwise the
// configured provider. The API key is only resolved here so that commands
// which never talk to a provider work without credentials.
func (a *app) oracle(ctx context.Context, scriptPath string) (ports.Oracle, error) {
	if scriptPath != "" {
		oracle, err := scripted.Load(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("load oracle script: %w", err)
		}
		return oracle, nil
	}

	apiKey, err := a.credentials.APIKey(ctx, a.cfg.Oracle.APIKeyEnv, a.cfg.Oracle.SecretRef)
	if err != nil {
		return nil, err
	}

	if a.cfg.Oracle.Provider == config.ProviderGemini {
		client, err := gemini.NewClient(ctx, apiKey, a.logger)
		if err != nil {
			return nil, fmt.Errorf("wire gemini oracle: %w", err)
		}
		return client, nil
	}

	client, err := openai.NewClient(openai.Config{
		APIKey:  apiKey,
		BaseURL: a.cfg.Oracle.BaseURL,
		Timeout: a.cfg.Oracle.Timeout,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("wire openai oracle: %w", err)
	}
	return client, nil
}

func (a *app) completionOptions() domain.CompletionOptions {
	model := a.cfg.Oracle.Model
	if a.cfg.Oracle.Provider == config.ProviderGemini && (model == "" || model == config.DefaultOpenAIModel) {
		model = gemini.DefaultModel
	}

	return domain.CompletionOptions{
		Model:       model,
		MaxTokens:   a.cfg.Oracle.MaxTokens,
		Temperature: a.cfg.Oracle.Temperature,
	}
}

func (a *app) runService(ctx context.Context, opts sessionOptions) (*application.RunService, error) {
	oracle, err := a.oracle(ctx, opts.scriptPath)
	if err != nil {
		return nil, err
	}

	workspace, err := local.New(a.cfg.Workspace.Dir,
		local.WithInterpreter(a.cfg.Workspace.Interpreter),
		local.WithTimeout(a.cfg.Workspace.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("wire workspace: %w", err)
	}

	experts := a.cfg.Experts.Count
	if opts.experts > 0 {
		experts = opts.experts
	}
	clarifier := console.New(opts.in, opts.out)

	factory := func() *application.Supervisor {
		return application.NewSupervisor(application.SupervisorConfig{
			Oracle:        oracle,
			Workspace:     workspace,
			Clarification: clarifier,
			Options:       a.completionOptions(),
			Experts:       experts,
			Concurrent:    opts.concurrent,
			Budget: application.Budget{
				MaxRounds:        a.cfg.Budget.MaxRounds,
				MaxRevisions:     a.cfg.Budget.MaxRevisions,
				MaxPlanSteps:     a.cfg.Budget.MaxPlanSteps,
				MaxSubSteps:      a.cfg.Budget.MaxSubSteps,
				MaxPlanRevisions: a.cfg.Budget.MaxPlanRevisions,
			},
			Logger: a.logger,
		})
	}

	return application.NewRunService(a.runs, ports.SystemClock{}, factory, a.logger), nil
}

// queryService serves the read-only run commands; it never builds a
// supervisor.
func (a *app) queryService() *application.RunService {
	return application.NewRunService(a.runs, ports.SystemClock{}, nil, a.logger)
}

func readContract(in io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read contract from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read contract file: %w", err)
	}
	return string(data), nil
}
