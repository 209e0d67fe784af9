package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "clubs", "mentone")
			require.ErrorIs(t, err, ErrNotFound)

			b := s.NewBatch()
			b.Create("clubs", "mentone", map[string]interface{}{
				"name":       "Mentone Hockey Club",
				"active":     true,
				"created_at": ServerTimestamp,
			})
			b.Create("teams", "team_1", map[string]interface{}{
				"name":     "Mentone - Men's Vic League 1",
				"club_ref": Ref{Collection: "clubs", ID: "mentone"},
			})
			assert.Equal(t, 2, b.Len())
			require.NoError(t, b.Commit(ctx))

			doc, err := s.Get(ctx, "clubs", "mentone")
			require.NoError(t, err)
			assert.Equal(t, "Mentone Hockey Club", doc.Data["name"])
			assert.NotNil(t, doc.Data["created_at"])

			team, err := s.Get(ctx, "teams", "team_1")
			require.NoError(t, err)
			assert.Equal(t, "clubs/mentone", team.Data["club_ref"])

			upd := s.NewBatch()
			upd.Update("clubs", "mentone", map[string]interface{}{"active": false})
			require.NoError(t, upd.Commit(ctx))

			doc, err = s.Get(ctx, "clubs", "mentone")
			require.NoError(t, err)
			assert.Equal(t, false, doc.Data["active"])
			assert.Equal(t, "Mentone Hockey Club", doc.Data["name"], "update must merge, not replace")

			games := s.NewBatch()
			games.Create("games", "g1", map[string]interface{}{
				"status":    "completed",
				"home_team": map[string]interface{}{"name": "Mentone", "score": 3},
			})
			require.NoError(t, games.Commit(ctx))
			withdrawn := s.NewBatch()
			withdrawn.Update("games", "g1", map[string]interface{}{
				"home_team": map[string]interface{}{"name": "Mentone"},
			})
			require.NoError(t, withdrawn.Commit(ctx))

			game, err := s.Get(ctx, "games", "g1")
			require.NoError(t, err)
			assert.Equal(t, map[string]interface{}{"name": "Mentone"}, game.Data["home_team"],
				"nested maps are replaced whole")
			assert.Equal(t, "completed", game.Data["status"])

			missing := s.NewBatch()
			missing.Update("clubs", "nobody", map[string]interface{}{"active": false})
			require.ErrorIs(t, missing.Commit(ctx), ErrNotFound)

			docs, err := s.List(ctx, "clubs")
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, "mentone", docs[0].ID)

			n, err := s.DeleteAll(ctx, "clubs")
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			docs, err = s.List(ctx, "clubs")
			require.NoError(t, err)
			assert.Empty(t, docs)

			require.NoError(t, s.Ping(ctx))
		})
	}
}

func TestMemoryResolvesServerTimestamp(t *testing.T) {
	fixed := time.Date(2025, 4, 14, 19, 30, 0, 0, time.UTC)
	m := NewMemory()
	m.SetClock(func() time.Time { return fixed })

	b := m.NewBatch()
	b.Create("games", "game_1", map[string]interface{}{
		"updated_at": ServerTimestamp,
		"home_team":  map[string]interface{}{"polled_at": ServerTimestamp},
	})
	require.NoError(t, b.Commit(context.Background()))

	doc, err := m.Get(context.Background(), "games", "game_1")
	require.NoError(t, err)
	assert.Equal(t, fixed, doc.Data["updated_at"])
	assert.Equal(t, fixed, doc.Data["home_team"].(map[string]interface{})["polled_at"])
	assert.Equal(t, 1, m.Commits())
	assert.Equal(t, 1, m.Writes())
}

func TestDecode(t *testing.T) {
	type club struct {
		Name      string    `json:"name"`
		Active    bool      `json:"active"`
		CreatedAt time.Time `json:"created_at"`
	}
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	docs := []Document{
		{ID: "a", Data: map[string]interface{}{"name": "A", "active": true, "created_at": ts}},
		{ID: "b", Data: map[string]interface{}{"name": "B"}},
	}
	out, err := DecodeAll[club](docs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Name)
	assert.True(t, out[0].CreatedAt.Equal(ts))
	assert.False(t, out[1].Active)
}

func TestIsServerTimestamp(t *testing.T) {
	assert.True(t, IsServerTimestamp(ServerTimestamp))
	assert.False(t, IsServerTimestamp(time.Now()))
}
