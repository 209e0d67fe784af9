package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	// Embedded zoneinfo so Australia/Melbourne resolves in scratch images.
	_ "time/tzdata"
)

// FileConfig is the subset of configuration that may live in hockey.json5.
// Values here are defaults; environment variables override them.
type FileConfig struct {
	BaseURL            string   `json:"base_url"`
	SiteURL            string   `json:"site_url"`
	Timezone           string   `json:"timezone"`
	HomeClub           HomeClub `json:"home_club"`
	MaxRounds          int      `json:"max_rounds"`
	StoreBackend       string   `json:"store_backend"`
	FirestoreProjectID string   `json:"firestore_project_id"`
	TeamsExportPath    string   `json:"teams_export_path"`
}

// DefaultFileConfig holds the values used when neither file nor
// environment sets a key.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		BaseURL:  "https://www.revolutionise.com.au/vichockey/games/",
		SiteURL:  "https://www.hockeyvictoria.org.au",
		Timezone: "Australia/Melbourne",
		HomeClub: HomeClub{
			Name:           "Mentone",
			ID:             "mentone",
			Location:       "Melbourne, Victoria",
			HomeVenue:      "Mentone Grammar Playing Fields",
			PrimaryColor:   "#0066cc",
			SecondaryColor: "#ffffff",
		},
		MaxRounds:    30,
		StoreBackend: BackendFirestore,
	}
}

func (f FileConfig) withDefaults() FileConfig {
	out := DefaultFileConfig()
	// Errors here are impossible: both sides share a type.
	_ = mergo.Merge(&out, f, mergo.WithOverride)
	return out
}

// LoadFile reads name and, when present, name.local.<ext> on top of it.
// Returns os.ErrNotExist when neither file exists.
func LoadFile(name string) (FileConfig, error) {
	var out FileConfig
	found := false

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		found = true
	}

	localPath := localName(name)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override FileConfig
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Info("Merged local config overrides", "file", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// localName turns "dir/hockey.json5" into "dir/hockey.local.json5".
func localName(name string) string {
	dir := filepath.Dir(name)
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}
