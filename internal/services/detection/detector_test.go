package detection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClassNamesDefault(t *testing.T) {
	names, err := loadClassNames("")
	require.NoError(t, err)
	assert.Len(t, names, 80)
	assert.Equal(t, "person", names[0])
	assert.Equal(t, "toothbrush", names[79])
}

func TestLoadClassNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\ndog\n\nbird\n"), 0o644))

	names, err := loadClassNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird"}, names)
}

func TestLoadClassNamesMissingFile(t *testing.T) {
	_, err := loadClassNames("/nonexistent/classes.txt")
	assert.Error(t, err)
}
