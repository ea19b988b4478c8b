package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	v := NewPathValidator()

	got, err := v.ValidateFile(filepath.Join(dir, "nested", "journal.db"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "journal.db"), got)

	info, err := os.Stat(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "parent directory should be created")

	_, err = v.ValidateFile(dir)
	assert.Error(t, err, "a directory is not a file")
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	v := NewPathValidator()

	got, err := v.ValidateDirectory(filepath.Join(dir, "index.bleve"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.bleve"), got)

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = v.ValidateDirectory(file)
	assert.Error(t, err)
}

func TestPathValidator_Rejects(t *testing.T) {
	v := NewPathValidator()
	for _, bad := range []string{"", "   ", "/tmp/../etc/passwd", "/tmp/a\x00b", "/tmp/a\nb"} {
		_, err := v.ValidateFile(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPathValidator_ExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	v := NewPathValidator()
	got, err := v.normalize("~/.journal/journal.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".journal", "journal.db"), got)
}
