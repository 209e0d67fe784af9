// Package export writes store contents to files for backup and for the
// dashboard's static fallbacks.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/reconcile"
)

// WriteTeamsJSON writes teams as an indented JSON array. Back-reference
// fields are stripped since a file cannot hold store handles.
func WriteTeamsJSON(path string, teams []model.Team) error {
	out := make([]map[string]interface{}, len(teams))
	for i, t := range teams {
		out[i] = reconcile.StripRefs(t.Fields())
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode teams: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
