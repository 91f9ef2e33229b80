package domain

import "errors"

var (
	ErrMalformedContract    = errors.New("malformed contract")
	ErrInvalidFileInput     = errors.New("invalid file input")
	ErrInvalidFilename      = errors.New("invalid filename")
	ErrMaxRevisionsExceeded = errors.New("max revisions exceeded")
	ErrEmptyPlan            = errors.New("oracle returned an empty plan")
	ErrBudgetExhausted      = errors.New("deliberation budget exhausted")
	ErrInvalidTransition    = errors.New("invalid loop state transition")
	ErrRunNotFound          = errors.New("run not found")
	ErrSecretNotFound       = errors.New("secret not found")
)
