package timer

import (
	"encoding/json"
	"fmt"
)

// AppContentReader defines the interface for reading content from the embedded file system.
type AppContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// PresetsFile is the embedded list of built-in timer selections.
const PresetsFile = "assets/presets.json"

// LoadPresets reads the built-in timer selections and checks that each of
// them parses to a startable duration.
func LoadPresets(reader AppContentReader) ([]string, error) {
	data, err := reader.ReadFile(PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}

	var presets []string
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("unmarshal presets: %w", err)
	}

	for _, p := range presets {
		d, err := ParseDuration(p)
		if err != nil {
			return nil, err
		}
		if d.Seconds <= 0 {
			return nil, fmt.Errorf("preset %q has no duration", p)
		}
	}
	return presets, nil
}
