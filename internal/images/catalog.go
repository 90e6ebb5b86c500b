package images

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bilgisen/skypost/internal/models"
)

// LoadCatalog reads the image catalog JSON produced by the offline
// preprocessing step. The catalog is read-only at runtime.
func LoadCatalog(path string) ([]models.ImageAsset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image catalog %s: %w", path, err)
	}

	var assets []models.ImageAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse image catalog %s: %w", path, err)
	}

	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		if a.ID == "" {
			return nil, fmt.Errorf("image catalog %s: entry with empty id", path)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("image catalog %s: duplicate id %q", path, a.ID)
		}
		seen[a.ID] = true
	}
	return assets, nil
}
