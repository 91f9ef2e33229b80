package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/bnema/smartworker/internal/ports"
)

// CredentialService resolves the oracle API key. An environment variable wins
// over the secret store.
type CredentialService struct {
	store     ports.SecretStore
	lookupEnv func(string) (string, bool)
}

func NewCredentialService(store ports.SecretStore) *CredentialService {
	return &CredentialService{store: store, lookupEnv: os.LookupEnv}
}

func (s *CredentialService) APIKey(ctx context.Context, envName string, ref string) (string, error) {
	if envName != "" {
		if value, ok := s.lookupEnv(envName); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), nil
		}
	}

	if s.store == nil || strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("resolve api key: %w", domain.ErrSecretNotFound)
	}

	value, err := s.store.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", fmt.Errorf("resolve api key: set %s or run \"sw auth set\": %w", envName, err)
		}
		return "", fmt.Errorf("resolve api key: %w", err)
	}
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("resolve api key: %q is empty: %w", ref, domain.ErrSecretNotFound)
	}

	return strings.TrimSpace(value), nil
}

func (s *CredentialService) Set(ctx context.Context, ref string, value string) error {
	if strings.TrimSpace(ref) == "" {
		return errors.New("secret ref is required")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is required")
	}

	if err := s.store.Put(ctx, ref, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	return nil
}

func (s *CredentialService) Remove(ctx context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errors.New("secret ref is required")
	}

	if err := s.store.Delete(ctx, ref); err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	return nil
}
