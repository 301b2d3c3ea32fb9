package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledLoggingIsSilent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{DebugMode: false}))

	Get(CategoryRepo).Infof("should go nowhere")
	Sync()

	// No logs directory is even created in production mode.
	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestDebugLoggingWritesPerCategory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Level: "debug"}))
	defer func() { _ = Initialize("", Options{}) }()

	Get(CategoryRepo).Infof("creating %s", "Odysseus")
	Get(CategoryDispatch).Debugf("input matched")
	Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "repo.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "creating Odysseus")

	raw, err = os.ReadFile(filepath.Join(dir, "logs", "dispatch.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "input matched")
}

func TestCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{
		DebugMode:  true,
		Categories: map[string]bool{"repo": true},
	}))
	defer func() { _ = Initialize("", Options{}) }()

	Get(CategoryRepo).Infof("kept")
	Get(CategoryScan).Infof("dropped")
	Sync()

	_, err := os.Stat(filepath.Join(dir, "logs", "repo.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "logs", "scan.log"))
	assert.True(t, os.IsNotExist(err))
}
