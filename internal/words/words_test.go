package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Len(), 8)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kw.txt")
	content := "# comment\nOcean\n\n ocean \ncar\nice cream\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ocean", "car", "ice cream"}, p.words)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New([]string{" ", ""})
	require.Error(t, err)
}

func TestDrawIsDistinct(t *testing.T) {
	p, err := New([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i"})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		got, err := p.Draw(8)
		require.NoError(t, err)
		require.Len(t, got, 8)
		seen := map[string]bool{}
		for _, w := range got {
			require.False(t, seen[w], "duplicate %q in %v", w, got)
			seen[w] = true
		}
	}
}

func TestDrawTooMany(t *testing.T) {
	p, err := New([]string{"a", "b"})
	require.NoError(t, err)
	_, err = p.Draw(3)
	require.ErrorIs(t, err, ErrTooFew)
}
