package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDryRun(t *testing.T) {
	cases := map[string]bool{
		"true":  true,
		"TRUE":  true,
		"1":     true,
		"t":     true,
		"T":     true,
		" t ":   true,
		"":      false,
		"false": false,
		"yes":   false,
		"0":     false,
		"on":    false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsDryRun(in), "IsDryRun(%q)", in)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("DRY_RUN", "t")

	cfg, err := FromEnv(DefaultFileConfig())
	require.NoError(t, err)

	assert.True(t, cfg.DryRun)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3, cfg.FetchRetries)
	assert.Equal(t, 2*time.Second, cfg.FetchRetryDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.PolitenessDelay)
	assert.Equal(t, 400, cfg.BatchSize)
	assert.Equal(t, "Mentone", cfg.HomeClub.Name)
	assert.Equal(t, "Mentone Hockey Club", cfg.HomeClub.FullName())
	assert.Equal(t, "Australia/Melbourne", cfg.Timezone.String())
	assert.Equal(t,
		"https://www.hockeyvictoria.org.au/games/5/9/round/3",
		cfg.RoundURL("5", "9", 3))
}

func TestFromEnvRejectsBadBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	_, err := FromEnv(DefaultFileConfig())
	require.Error(t, err)
}

func TestFromEnvFirestoreNeedsProject(t *testing.T) {
	t.Setenv("STORE_BACKEND", "firestore")
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	_, err := FromEnv(DefaultFileConfig())
	require.Error(t, err)
}

func TestLoadFileMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "hockey.json5")
	require.NoError(t, os.WriteFile(base, []byte(`{
		// comments are allowed
		home_club: { name: "Mentone", id: "mentone" },
		max_rounds: 18,
		store_backend: "sqlite",
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hockey.local.json5"), []byte(`{
		store_backend: "memory",
	}`), 0o644))

	fc, err := LoadFile(base)
	require.NoError(t, err)
	assert.Equal(t, "memory", fc.StoreBackend)
	assert.Equal(t, 18, fc.MaxRounds)
	assert.Equal(t, "mentone", fc.HomeClub.ID)

	merged := fc.withDefaults()
	assert.Equal(t, "Australia/Melbourne", merged.Timezone)
	assert.Equal(t, 18, merged.MaxRounds)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
