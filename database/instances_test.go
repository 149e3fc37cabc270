package database

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/mrmelon54/mc-launcher-core/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

func TestQueries_instances(t *testing.T) {
	p := filepath.Join(t.TempDir(), "instances.sqlite3.db")
	db, err := Open(p)
	require.NoError(t, err)
	defer db.Close()
	q := New(db)
	ctx := context.Background()

	id := uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, q.AddInstance(ctx, AddInstanceParams{
		ID:          id,
		Name:        "survival",
		Version:     "1.20.1",
		RuntimePath: "/data/java/17.0.8/bin/java",
		Arguments:   types.Arguments{"-cp", "a:b:j", "net.minecraft.client.main.Main"},
		CreatedAt:   created,
	}))
	require.NoError(t, q.AddInstance(ctx, AddInstanceParams{
		ID:        uuid.New(),
		Name:      "creative",
		Version:   "1.19.4",
		Arguments: types.Arguments{},
		CreatedAt: created,
	}))

	// names are unique
	assert.Error(t, q.AddInstance(ctx, AddInstanceParams{ID: uuid.New(), Name: "survival", CreatedAt: created}))

	inst, err := q.GetInstance(ctx, "survival")
	require.NoError(t, err)
	assert.Equal(t, id, inst.ID)
	assert.Equal(t, "/data/java/17.0.8/bin/java", inst.RuntimePath)
	assert.Equal(t, types.Arguments{"-cp", "a:b:j", "net.minecraft.client.main.Main"}, inst.Arguments)
	assert.True(t, created.Equal(inst.CreatedAt))

	all, err := q.ListInstances(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "creative", all[0].Name)

	n, err := q.DeleteInstance(ctx, "creative")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = q.GetInstance(ctx, "creative")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// reopening applies no further migrations
	require.NoError(t, Migrate(db))
}
