package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
	"go.uber.org/zap"
)

// Dispatcher performs the side effects of the file commands. Failures are
// folded into feedback text so the loop can keep going.
type Dispatcher struct {
	workspace ports.Workspace
	logger    *zap.Logger
}

func NewDispatcher(workspace ports.Workspace, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{workspace: workspace, logger: logger}
}

func (d *Dispatcher) WriteFile(ctx context.Context, cmd domain.Command) (string, error) {
	if strings.TrimSpace(cmd.Filename) == "" || cmd.Content == "" {
		return "", fmt.Errorf("%w: write_file needs a filename and content", domain.ErrInvalidFileInput)
	}

	if err := d.workspace.WriteFile(ctx, cmd.Filename, cmd.Content); err != nil {
		return "", fmt.Errorf("write %s: %w", cmd.Filename, err)
	}

	d.logger.Info("file written", zap.String("file", cmd.Filename), zap.Int("bytes", len(cmd.Content)))
	return fmt.Sprintf("Written to %s", cmd.Filename), nil
}

func (d *Dispatcher) RunCode(ctx context.Context, cmd domain.Command) (string, error) {
	if strings.TrimSpace(cmd.Filename) == "" {
		return "", fmt.Errorf("%w: run_code needs a filename", domain.ErrInvalidFilename)
	}

	stdout, err := d.workspace.RunFile(ctx, cmd.Filename)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", cmd.Filename, err)
	}

	d.logger.Info("code executed", zap.String("file", cmd.Filename), zap.Int("stdout_bytes", len(stdout)))
	if strings.TrimSpace(stdout) == "" {
		return fmt.Sprintf("Executed %s", cmd.Filename), nil
	}
	return stdout, nil
}

// Execute runs a file command and always yields feedback text.
func (d *Dispatcher) Execute(ctx context.Context, cmd domain.Command) string {
	var (
		feedback string
		err      error
	)

	switch cmd.Kind {
	case domain.CommandWriteFile:
		feedback, err = d.WriteFile(ctx, cmd)
	case domain.CommandRunCode:
		feedback, err = d.RunCode(ctx, cmd)
	default:
		return cmd.Raw
	}

	if err != nil {
		d.logger.Warn("command failed", zap.String("command", string(cmd.Kind)), zap.Error(err))
		return failureFeedback(cmd, err)
	}

	return feedback
}

// Feedback derives the feedback for a reply: run_code output when the reply
// asks to run code, the reply itself otherwise.
func (d *Dispatcher) Feedback(ctx context.Context, reply string) string {
	cmd := ParseCommand(reply)
	if cmd.Kind != domain.CommandRunCode {
		return reply
	}

	return d.Execute(ctx, cmd)
}

func failureFeedback(cmd domain.Command, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidFileInput):
		return fmt.Sprintf("Invalid file input: %v", err)
	case errors.Is(err, domain.ErrInvalidFilename):
		return fmt.Sprintf("Invalid filename: %v", err)
	case cmd.Kind == domain.CommandRunCode:
		return fmt.Sprintf("Error running %s: %v", cmd.Filename, err)
	default:
		return fmt.Sprintf("Error writing %s: %v", cmd.Filename, err)
	}
}
