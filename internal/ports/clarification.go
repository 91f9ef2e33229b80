package ports

import "context"

// ClarificationSource blocks until an operator answers request.
type ClarificationSource interface {
	Await(ctx context.Context, request string) (string, error)
}
