package filestorage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/exports/")
	require.NoError(t, err)

	info, err := ls.Save("reports", "xlsx", func(w io.Writer) error {
		_, err := w.Write([]byte("data"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.FileSize)
	assert.Equal(t, "/exports/reports/"+info.Filename, info.Path)
	assert.Equal(t, ".xlsx", filepath.Ext(info.Filename))

	full := ls.GetFullPath(info.Path)
	assert.Equal(t, filepath.Join(dir, "reports", info.Filename), full)
	content, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	require.NoError(t, ls.DeleteFile(info.Path))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine
	assert.NoError(t, ls.DeleteFile(info.Path))
}

func TestLocalStorage_FailedWriteRemovesFile(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	_, err = ls.Save("", "pdf", func(w io.Writer) error { return errors.New("render failed") })
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_GetFullPathStaysInBase(t *testing.T) {
	ls := &LocalStorage{basePath: "/data/exports", baseURL: "/exports"}
	assert.Equal(t, filepath.Join("/data/exports", "etc", "passwd"), ls.GetFullPath("/exports/../../etc/passwd"))
	assert.Equal(t, "", ls.GetFullPath("/exports"))
}
