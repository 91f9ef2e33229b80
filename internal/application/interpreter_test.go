package application

import (
	"testing"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		text         string
		wantKind     domain.CommandKind
		wantToken    string
		wantFilename string
		wantContent  string
	}{
		{
			name:         "write file with content",
			text:         "/write_file notes.txt hello world",
			wantKind:     domain.CommandWriteFile,
			wantToken:    "write_file",
			wantFilename: "notes.txt",
			wantContent:  "hello world",
		},
		{
			name:         "run code without slash",
			text:         "I will now run_code main.py",
			wantKind:     domain.CommandRunCode,
			wantToken:    "run_code",
			wantFilename: "main.py",
		},
		{
			name:      "return contract wins over write file",
			text:      "/write_file a.txt x\nActually /return_contract the source is missing",
			wantKind:  domain.CommandReturnContract,
			wantToken: "return_contract",
		},
		{
			name:      "finish wins over run code",
			text:      "/run_code check.py then /finish_contract.",
			wantKind:  domain.CommandFinishContract,
			wantToken: "finish_contract",
		},
		{
			name:      "legacy validation token",
			text:      "All done. /ready_for_validation",
			wantKind:  domain.CommandFinishContract,
			wantToken: "ready_for_validation",
		},
		{
			name:      "trailing punctuation",
			text:      "Nothing left to do, finish_contract!",
			wantKind:  domain.CommandFinishContract,
			wantToken: "finish_contract",
		},
		{
			name:     "quoted token is commentary",
			text:     `I should not use "/return_contract" yet, the plan is fine.`,
			wantKind: domain.CommandNone,
		},
		{
			name:     "backticked token is commentary",
			text:     "Later we can call `run_code` on it.",
			wantKind: domain.CommandNone,
		},
		{
			name:     "substring is not a command",
			text:     "the rewrite_file_helper is ready",
			wantKind: domain.CommandNone,
		},
		{
			name:      "write file without arguments",
			text:      "/write_file",
			wantKind:  domain.CommandWriteFile,
			wantToken: "write_file",
		},
		{
			name:     "empty",
			text:     "",
			wantKind: domain.CommandNone,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := ParseCommand(tc.text)
			assert.Equal(t, tc.wantKind, cmd.Kind)
			assert.Equal(t, tc.wantToken, cmd.Token)
			assert.Equal(t, tc.wantFilename, cmd.Filename)
			assert.Equal(t, tc.wantContent, cmd.Content)
			assert.Equal(t, tc.text, cmd.Raw)
			assert.Equal(t, tc.wantKind != domain.CommandNone, cmd.Recognized())
		})
	}
}
