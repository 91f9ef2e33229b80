package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oracleKey = "smartworker/oracle/api_key"

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "secret key is empty"},
		{name: "whitespace", key: "   ", wantErr: "secret key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid secret key"},
		{name: "traversal", key: "../escape", wantErr: "invalid secret key"},
		{name: "deep traversal", key: "smartworker/../../secret", wantErr: "invalid secret key"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Put(context.Background(), oracleKey, "sk-test"))

	got, err := store.Get(context.Background(), oracleKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", got)

	info, err := os.Stat(filepath.Join(root, oracleKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretFileMode), info.Mode().Perm())
}

func TestStoreGetTrimsHandWrittenNewline(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "smartworker", "oracle"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, oracleKey), []byte("sk-test\n"), 0o600))

	got, err := NewStore(root).Get(context.Background(), oracleKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", got)
}

func TestStoreGetMissingSecret(t *testing.T) {
	t.Parallel()

	_, err := NewStore(t.TempDir()).Get(context.Background(), oracleKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStorePutRejectsEmptyValue(t *testing.T) {
	t.Parallel()

	err := NewStore(t.TempDir()).Put(context.Background(), oracleKey, " \n")
	assert.ErrorContains(t, err, "value is empty")
}

func TestStoreDeleteIsIdempotentWhenSecretMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Delete(context.Background(), oracleKey))
	require.NoError(t, store.Delete(context.Background(), oracleKey))
}
