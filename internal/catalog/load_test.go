package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalCatalog = `
version: %s
groups:
  - id: basics
    title: Basics
    unlock_threshold: 0
    units:
      - id: u1
        title: Unit One
        xp_reward: 10
        quiz:
          questions:
            - prompt: Pick A
              options: [A, B]
              correct: 0
`

func catalogWithVersion(v string) []byte {
	return []byte(strings.Replace(minimalCatalog, "%s", v, 1))
}

func TestParse_Minimal(t *testing.T) {
	c, err := Parse(catalogWithVersion("v1.2.0"))
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", c.Version())
	assert.Equal(t, 1, c.UnitCount())

	u, ok := c.Unit("u1")
	require.True(t, ok)
	assert.Equal(t, 10, u.XPReward)
	assert.Equal(t, 0, u.Quiz.Questions[0].CorrectIndex)
}

func TestParse_RejectsUnsupportedMajor(t *testing.T) {
	_, err := Parse(catalogWithVersion("v2.0.0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestParse_RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing groups", "version: v1.0.0\n"},
		{"bad version pattern", string(catalogWithVersion("1.0"))},
		{"negative threshold", strings.Replace(string(catalogWithVersion("v1.0.0")), "unlock_threshold: 0", "unlock_threshold: -1", 1)},
		{"string reward", strings.Replace(string(catalogWithVersion("v1.0.0")), "xp_reward: 10", "xp_reward: lots", 1)},
		{"single option", strings.Replace(string(catalogWithVersion("v1.0.0")), "options: [A, B]", "options: [A]", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema")
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("groups: [unclosed"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, catalogWithVersion("v1.0.1"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v1.0.1", c.Version())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
