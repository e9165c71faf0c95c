// Package storetest opens throwaway migrated databases for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lexora/lexora-server/internal/config"
	"github.com/lexora/lexora-server/store"
	"github.com/stretchr/testify/require"
)

// NewSqliteStore returns a migrated in-memory sqlite store closed with the test.
func NewSqliteStore(t testing.TB) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	s, err := store.Open(context.Background(), config.DBDriverSqlite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}
