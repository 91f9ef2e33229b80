package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int         `toml:"version"`
	Runs    []runSchema `toml:"runs"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported runs schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type runSchema struct {
	ID            string   `toml:"id"`
	State         string   `toml:"state"`
	Prompt        string   `toml:"prompt"`
	Rounds        int      `toml:"rounds"`
	Error         string   `toml:"error,omitempty"`
	StartedAt     string   `toml:"started_at"`
	FinishedAt    string   `toml:"finished_at"`
	Plan          []string `toml:"plan,omitempty"`
	Trail         []string `toml:"trail,omitempty"`
	Actions       []string `toml:"actions,omitempty"`
	Clarification []string `toml:"clarification,omitempty"`
}
