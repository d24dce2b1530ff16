package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	driver, err := NewDB(&profile.Profile{DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	return driver.(*DB)
}

func TestNewDB_RequiresDSN(t *testing.T) {
	_, err := NewDB(&profile.Profile{})
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	ok, err := d.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Migrate(ctx))
	require.NoError(t, d.Migrate(ctx))

	ok, err = d.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteTodos_RequiresCondition(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	require.NoError(t, d.Migrate(ctx))

	_, err := d.DeleteTodos(ctx, &store.DeleteTodo{})
	assert.Error(t, err)
}

func TestUpdateTodo_NoFields(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	require.NoError(t, d.Migrate(ctx))

	_, err := d.UpdateTodo(ctx, &store.UpdateTodo{ID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	created, err := d.CreateTodo(ctx, &store.Todo{ID: "t1", Title: "keep", CreatedTs: 1})
	require.NoError(t, err)
	got, err := d.UpdateTodo(ctx, &store.UpdateTodo{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}
