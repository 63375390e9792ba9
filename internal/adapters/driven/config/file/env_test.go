package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName),
		[]byte("STUDYDECK_TEST_KEY=from-file\nSTUDYDECK_TEST_KEEP=from-file\n"), 0600))

	t.Setenv("STUDYDECK_TEST_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("STUDYDECK_TEST_KEY") })

	require.NoError(t, LoadEnv(dir))

	assert.Equal(t, "from-file", os.Getenv("STUDYDECK_TEST_KEY"))
	assert.Equal(t, "from-env", os.Getenv("STUDYDECK_TEST_KEEP"))
}

func TestLoadEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(t.TempDir()))
}
