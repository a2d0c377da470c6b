package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridmines/minesync/internal/sync/store"
	"github.com/gridmines/minesync/internal/sync/store/drivers/sqlite"
	"github.com/gridmines/minesync/pkg/cryptox"
	"github.com/gridmines/minesync/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "sync.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	return jwtx.NewCodec("test-secret-key-for-service-tests")
}

func newTestTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()
	return &TokenService{
		Store:      st,
		Codec:      newTestCodec(t),
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
}

// createTestUser inserts a user directly, skipping signup validation.
func createTestUser(t *testing.T, st store.Store, username, password string) int64 {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id, err := st.Users().CreateUser(context.Background(), username, hash)
	require.NoError(t, err)
	return id
}

func intptr(v int) *int { return &v }
