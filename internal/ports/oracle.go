package ports

import (
	"context"

	"github.com/bnema/smartworker/internal/domain"
)

// Oracle issues a single completion for the full history. Implementations do
// not retry.
type Oracle interface {
	Complete(ctx context.Context, history []domain.Message, opts domain.CompletionOptions) (string, error)
}
