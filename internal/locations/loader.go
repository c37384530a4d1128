package locations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// LoadSetFile reads one location set file: a JSON array of location definitions
func LoadSetFile(path string) ([]models.LocationDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read location set %s: %w", path, err)
	}

	var defs []models.LocationDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse location set %s: %w", path, err)
	}
	return defs, nil
}

// LoadDir builds a registry from a directory of location set files. The file
// named base.json is the base set; every other *.json file is an overlay,
// applied in lexical order so merging stays deterministic. A missing
// base.json means an empty base set.
func LoadDir(dir string) (*Registry, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list location sets in %s: %w", dir, err)
	}
	sort.Strings(entries)

	var base []models.LocationDefinition
	var overlays [][]models.LocationDefinition

	for _, path := range entries {
		defs, err := LoadSetFile(path)
		if err != nil {
			return nil, err
		}
		if filepath.Base(path) == "base.json" {
			base = defs
		} else {
			overlays = append(overlays, defs)
		}
	}

	return Load(base, overlays...)
}
