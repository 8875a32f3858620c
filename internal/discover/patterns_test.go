package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternTable_SuggestionsSortedByConfidence(t *testing.T) {
	got := DefaultPatterns().Suggestions("example.org", nil)
	require.NotEmpty(t, got)

	assert.Equal(t, "info@example.org", got[0].Email)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence,
			"suggestions must be in descending confidence order")
	}
}

func TestPatternTable_SuggestionsExcludes(t *testing.T) {
	exclude := map[string]bool{"info@example.org": true}
	got := DefaultPatterns().Suggestions("example.org", exclude)

	for _, s := range got {
		assert.NotEqual(t, "info@example.org", s.Email)
	}
}

func TestLoadPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`patterns:
  - local: bookings
    role: Bookings
    confidence: 77
  - local: press
    role: Press
    confidence: 33
`), 0o600))

	table, err := LoadPatterns(path)
	require.NoError(t, err)
	require.Len(t, table.Entries, 2)
	assert.Equal(t, "bookings", table.Entries[0].Local)
	assert.Equal(t, 77, table.Entries[0].Confidence)
}

func TestLoadPatterns_Errors(t *testing.T) {
	_, err := LoadPatterns(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("patterns: []\n"), 0o600))
	_, err = LoadPatterns(empty)
	assert.Error(t, err)
}
