package ports

import "context"

type Workspace interface {
	WriteFile(ctx context.Context, name string, content string) error
	// RunFile executes name and returns its captured standard output.
	RunFile(ctx context.Context, name string) (string, error)
}
