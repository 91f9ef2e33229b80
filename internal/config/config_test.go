package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Oracle.Provider)
	assert.Equal(t, "gpt-3.5-turbo-16k", cfg.Oracle.Model)
	assert.Equal(t, 10000, cfg.Oracle.MaxTokens)
	assert.InDelta(t, 0.1, cfg.Oracle.Temperature, 1e-9)
	assert.Equal(t, 10*time.Minute, cfg.Oracle.Timeout)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Oracle.APIKeyEnv)
	assert.Equal(t, 3, cfg.Experts.Count)
	assert.False(t, cfg.Experts.Concurrent)
	assert.Equal(t, 32, cfg.Budget.MaxRounds)
	assert.Equal(t, 3, cfg.Budget.MaxRevisions)
	assert.Equal(t, "python", cfg.Workspace.Interpreter)
	assert.Equal(t, 5*time.Minute, cfg.Workspace.Timeout)
	assert.Equal(t, filepath.Join(homeDir, Dir, "runs.toml"), cfg.Runs.Path)
	assert.Equal(t, 100, cfg.Runs.Keep)
	assert.Equal(t, filepath.Join(homeDir, Dir, "secrets"), cfg.SecretsDir())
}

func TestLoadReadsConfigFileAndEnv(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	require.NoError(t, os.MkdirAll(filepath.Join(homeDir, Dir), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(homeDir, Dir, "config.toml"), []byte(`
[oracle]
provider = "Gemini"
model = "gemini-2.5-flash"
timeout = "30s"

[experts]
count = 5
concurrent = true
`), 0o600))
	t.Setenv("SW_EXPERTS_COUNT", "7")
	t.Setenv("SW_BUDGET_MAX_ROUNDS", "4")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Oracle.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Oracle.Model)
	assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, 7, cfg.Experts.Count)
	assert.True(t, cfg.Experts.Concurrent)
	assert.Equal(t, 4, cfg.Budget.MaxRounds)
}

func TestLoadMalformedConfigFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	require.NoError(t, os.MkdirAll(filepath.Join(homeDir, Dir), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(homeDir, Dir, "config.toml"), []byte("[oracle"), 0o600))

	_, err := Load(viper.New())
	assert.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Oracle:  OracleConfig{Provider: ProviderOpenAI, Timeout: time.Minute},
			Experts: ExpertsConfig{Count: 1},
			Budget:  BudgetConfig{MaxRounds: 1, MaxRevisions: 1, MaxPlanSteps: 1, MaxSubSteps: 1, MaxPlanRevisions: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.Oracle.Provider = "llama" }, wantErr: `oracle.provider "llama"`},
		{name: "no experts", mutate: func(c *Config) { c.Experts.Count = 0 }, wantErr: "experts.count"},
		{name: "zero rounds", mutate: func(c *Config) { c.Budget.MaxRounds = 0 }, wantErr: "budget.max_rounds"},
		{name: "zero timeout", mutate: func(c *Config) { c.Oracle.Timeout = 0 }, wantErr: "oracle.timeout"},
		{name: "negative keep", mutate: func(c *Config) { c.Runs.Keep = -1 }, wantErr: "runs.keep"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
