package timer

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPresets(t *testing.T) {
	fs := fstest.MapFS{
		PresetsFile: {Data: []byte(`["15 min", "1 hrs", "90 min"]`)},
	}

	presets, err := LoadPresets(fs)
	require.NoError(t, err)
	assert.Equal(t, []string{"15 min", "1 hrs", "90 min"}, presets)
}

func TestLoadPresets_Invalid(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"missing":   {},
		"not json":  {PresetsFile: {Data: []byte(`15 min`)}},
		"malformed": {PresetsFile: {Data: []byte(`["15 minutes"]`)}},
		"zero":      {PresetsFile: {Data: []byte(`["0 sec"]`)}},
	}

	for name, fs := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPresets(fs)
			assert.Error(t, err)
		})
	}
}
