package scengen

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Save marshals a RunConfig as indented JSON and writes it to path, creating
// parent directories as needed.
func Save(path string, cfg any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
