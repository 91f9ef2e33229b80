// Package config loads sw settings from $HOME/.smartworker/config.toml,
// SW_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	Dir        = ".smartworker"
	envPrefix  = "SW"
	configName = "config"
	configType = "toml"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIModel = "gpt-3.5-turbo-16k"
)

type Config struct {
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Experts   ExpertsConfig   `mapstructure:"experts"`
	Budget    BudgetConfig    `mapstructure:"budget"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Runs      RunsConfig      `mapstructure:"runs"`
	Log       LogConfig       `mapstructure:"log"`
	// HomeDir is where runs and file secrets live by default.
	HomeDir string `mapstructure:"-"`
}

type OracleConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SecretRef   string        `mapstructure:"secret_ref"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
}

type ExpertsConfig struct {
	Count      int  `mapstructure:"count"`
	Concurrent bool `mapstructure:"concurrent"`
}

type BudgetConfig struct {
	MaxRounds        int `mapstructure:"max_rounds"`
	MaxRevisions     int `mapstructure:"max_revisions"`
	MaxPlanSteps     int `mapstructure:"max_plan_steps"`
	MaxSubSteps      int `mapstructure:"max_sub_steps"`
	MaxPlanRevisions int `mapstructure:"max_plan_revisions"`
}

type WorkspaceConfig struct {
	Dir         string        `mapstructure:"dir"`
	Interpreter string        `mapstructure:"interpreter"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RunsConfig struct {
	Path string `mapstructure:"path"`
	Keep int    `mapstructure:"keep"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SecretsDir is the root of the file secret store.
func (c Config) SecretsDir() string {
	return filepath.Join(c.HomeDir, Dir, "secrets")
}

// SetDefaults registers every key so that SW_* variables are picked up by
// Unmarshal even when the config file does not mention them.
func SetDefaults(v *viper.Viper, homeDir string, workDir string) {
	v.SetDefault("oracle.provider", ProviderOpenAI)
	v.SetDefault("oracle.model", DefaultOpenAIModel)
	v.SetDefault("oracle.base_url", "https://api.openai.com/v1")
	v.SetDefault("oracle.max_tokens", 10000)
	v.SetDefault("oracle.temperature", 0.1)
	v.SetDefault("oracle.timeout", 10*time.Minute)
	v.SetDefault("oracle.secret_ref", "smartworker/oracle/api_key")
	v.SetDefault("oracle.api_key_env", "OPENAI_API_KEY")

	v.SetDefault("experts.count", 3)
	v.SetDefault("experts.concurrent", false)

	v.SetDefault("budget.max_rounds", 32)
	v.SetDefault("budget.max_revisions", 3)
	v.SetDefault("budget.max_plan_steps", 64)
	v.SetDefault("budget.max_sub_steps", 16)
	v.SetDefault("budget.max_plan_revisions", 2)

	v.SetDefault("workspace.dir", workDir)
	v.SetDefault("workspace.interpreter", "python")
	v.SetDefault("workspace.timeout", 5*time.Minute)

	v.SetDefault("runs.path", filepath.Join(homeDir, Dir, "runs.toml"))
	v.SetDefault("runs.keep", 100)

	v.SetDefault("log.level", "info")
}

// Load resolves the configuration into v and returns the decoded result.
// A missing config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("resolve working directory: %w", err)
	}

	SetDefaults(v, homeDir, workDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(homeDir, Dir))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = homeDir
	cfg.Oracle.Provider = strings.ToLower(strings.TrimSpace(cfg.Oracle.Provider))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.Oracle.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("oracle.provider %q is not supported", c.Oracle.Provider))
	}
	if c.Oracle.Timeout <= 0 {
		errs = append(errs, errors.New("oracle.timeout must be positive"))
	}
	if c.Experts.Count < 1 {
		errs = append(errs, errors.New("experts.count must be at least 1"))
	}

	budgets := []struct {
		key   string
		value int
	}{
		{"budget.max_rounds", c.Budget.MaxRounds},
		{"budget.max_revisions", c.Budget.MaxRevisions},
		{"budget.max_plan_steps", c.Budget.MaxPlanSteps},
		{"budget.max_sub_steps", c.Budget.MaxSubSteps},
		{"budget.max_plan_revisions", c.Budget.MaxPlanRevisions},
	}
	for _, b := range budgets {
		if b.value < 1 {
			errs = append(errs, fmt.Errorf("%s must be at least 1", b.key))
		}
	}
	if c.Runs.Keep < 0 {
		errs = append(errs, errors.New("runs.keep must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
