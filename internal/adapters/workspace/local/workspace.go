// Package local executes file commands against a directory on disk.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
)

const (
	DefaultInterpreter = "python"
	defaultRunTimeout  = 5 * time.Minute
	workspaceFileMode  = 0o644
	workspaceDirMode   = 0o755
)

type runFunc func(ctx context.Context, dir string, name string, args ...string) (stdout string, stderr string, err error)

type Workspace struct {
	root        string
	interpreter string
	timeout     time.Duration
	run         runFunc
}

var _ ports.Workspace = (*Workspace)(nil)

type Option func(*Workspace)

func WithInterpreter(interpreter string) Option {
	return func(w *Workspace) {
		if interpreter != "" {
			w.interpreter = interpreter
		}
	}
}

// WithTimeout bounds a single run_code execution.
func WithTimeout(timeout time.Duration) Option {
	return func(w *Workspace) {
		if timeout > 0 {
			w.timeout = timeout
		}
	}
}

func New(root string, opts ...Option) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace directory: %w", err)
	}

	w := &Workspace{
		root:        filepath.Clean(absRoot),
		interpreter: DefaultInterpreter,
		timeout:     defaultRunTimeout,
		run:         runCommand,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

func (w *Workspace) Root() string {
	return w.root
}

func (w *Workspace) WriteFile(ctx context.Context, name string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := w.resolve(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), workspaceDirMode); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), workspaceFileMode); err != nil {
		return fmt.Errorf("write workspace file %q: %w", name, err)
	}

	return nil
}

// RunFile runs "<interpreter> <name>" inside the workspace and returns its
// standard output. Standard error is only reported when the run fails.
func (w *Workspace) RunFile(ctx context.Context, name string) (string, error) {
	path, err := w.resolve(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("workspace file %q does not exist", name)
		}
		return "", fmt.Errorf("stat workspace file %q: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %q is a directory", domain.ErrInvalidFilename, name)
	}

	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", fmt.Errorf("resolve workspace file %q: %w", name, err)
	}

	stdout, stderr, err := w.run(runCtx, w.root, w.interpreter, rel)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return stdout, fmt.Errorf("run %q: timed out after %s", name, w.timeout)
		}
		if stderr != "" {
			return stdout, fmt.Errorf("run %q: %w: %s", name, err, stderr)
		}
		return stdout, fmt.Errorf("run %q: %w", name, err)
	}

	return stdout, nil
}

// resolve maps a workspace-relative name to an absolute path. Empty names,
// absolute paths and paths escaping the root are rejected.
func (w *Workspace) resolve(name string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(name), `"'`+"`")
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty filename", domain.ErrInvalidFilename)
	}
	if filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("%w: %q is absolute", domain.ErrInvalidFilename, name)
	}

	path := filepath.Join(w.root, filepath.Clean(trimmed))
	if path != w.root && !strings.HasPrefix(path, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the workspace", domain.ErrInvalidFilename, name)
	}
	if path == w.root {
		return "", fmt.Errorf("%w: %q names the workspace itself", domain.ErrInvalidFilename, name)
	}

	return path, nil
}

func runCommand(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
