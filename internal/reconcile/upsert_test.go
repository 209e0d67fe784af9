package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

type doc struct {
	id   string
	name string
}

func (d doc) DocID() string { return d.id }

func (d doc) Fields() map[string]interface{} {
	return map[string]interface{}{
		"id":       d.id,
		"name":     d.name,
		"club_ref": store.Ref{Collection: "clubs", ID: "mentone"},
	}
}

func docs(n int) []model.Doc {
	out := make([]model.Doc, n)
	for i := range out {
		out[i] = doc{id: fmt.Sprintf("team_%03d", i), name: "Team"}
	}
	return out
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpsertCommitsInBoundedBatches(t *testing.T) {
	mem := store.NewMemory()
	u := New(mem, 400, false, quiet())

	res, err := u.Upsert(context.Background(), "teams", docs(401), nil)
	require.NoError(t, err)
	assert.Equal(t, 401, res.Created)
	assert.Zero(t, res.Updated)
	assert.Equal(t, 2, res.Batches)
	assert.Equal(t, 2, mem.Commits())
	assert.Equal(t, 401, mem.Writes())
}

func TestUpsertDryRunWritesNothing(t *testing.T) {
	mem := store.NewMemory()
	u := New(mem, 400, true, quiet())

	res, err := u.Upsert(context.Background(), "teams", docs(10), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Updated)
	assert.Zero(t, res.Batches)
	assert.Zero(t, mem.Commits())

	list, err := mem.List(context.Background(), "teams")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(48 * time.Hour)

	mem := store.NewMemory()
	mem.SetClock(func() time.Time { return t0 })
	mem.Put("teams", "team_001", map[string]interface{}{
		"name":       "Old name",
		"created_at": store.ServerTimestamp,
		"updated_at": store.ServerTimestamp,
	})
	mem.SetClock(func() time.Time { return t1 })

	u := New(mem, 400, false, quiet())
	res, err := u.Upsert(ctx, "teams", []model.Doc{
		doc{id: "team_001", name: "New name"},
		doc{id: "team_002", name: "Fresh"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Created)

	existing, err := mem.Get(ctx, "teams", "team_001")
	require.NoError(t, err)
	assert.Equal(t, "New name", existing.Data["name"])
	assert.Equal(t, t0, existing.Data["created_at"])
	assert.Equal(t, t1, existing.Data["updated_at"])

	fresh, err := mem.Get(ctx, "teams", "team_002")
	require.NoError(t, err)
	assert.Equal(t, t1, fresh.Data["created_at"])
	assert.Equal(t, t1, fresh.Data["updated_at"])
}

func TestUpsertSkipsEmptyIDsAndCollapsesDuplicates(t *testing.T) {
	mem := store.NewMemory()
	u := New(mem, 400, false, quiet())

	res, err := u.Upsert(context.Background(), "teams", []model.Doc{
		doc{id: "", name: "nobody"},
		doc{id: "team_1", name: "first"},
		doc{id: "team_1", name: "second"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Created)

	got, err := mem.Get(context.Background(), "teams", "team_1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Data["name"])
}

func TestUpsertAppliesTransform(t *testing.T) {
	mem := store.NewMemory()
	u := New(mem, 400, false, quiet())

	_, err := u.Upsert(context.Background(), "teams", docs(1), StripRefs)
	require.NoError(t, err)

	got, err := mem.Get(context.Background(), "teams", "team_000")
	require.NoError(t, err)
	assert.NotContains(t, got.Data, "club_ref")
	assert.Contains(t, got.Data, "name")
}

func TestGetOrCreateNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.Put("clubs", "mentone", map[string]interface{}{"name": "Mentone Hockey Club", "primary_color": "#0066cc"})
	u := New(mem, 400, false, quiet())

	stored, created, err := u.GetOrCreate(ctx, "clubs", model.Club{ID: "mentone", Name: "Something Else"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Mentone Hockey Club", stored.Data["name"])
	assert.Zero(t, mem.Commits())

	stored, created, err = u.GetOrCreate(ctx, "clubs", model.Club{ID: "hawthorn", Name: "Hawthorn Hockey Club"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Hawthorn Hockey Club", stored.Data["name"])
	assert.Contains(t, stored.Data, "created_at")
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.Put("teams", "a", map[string]interface{}{})
	mem.Put("teams", "b", map[string]interface{}{})
	mem.Put("games", "g", map[string]interface{}{})

	dry, err := New(mem, 400, true, quiet()).Purge(ctx, []string{"teams", "games"})
	require.NoError(t, err)
	assert.Empty(t, dry)

	deleted, err := New(mem, 400, false, quiet()).Purge(ctx, []string{"teams", "games", "players"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"teams": 2, "games": 1, "players": 0}, deleted)
}

func TestStripRefs(t *testing.T) {
	got := StripRefs(map[string]interface{}{
		"name":      "x",
		"club_ref":  1,
		"team_refs": 2,
		"referee":   "kept",
	})
	assert.Equal(t, map[string]interface{}{"name": "x", "referee": "kept"}, got)
}
