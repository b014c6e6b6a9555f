package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUploadNamesFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	name, err := store.SaveUpload("../../etc/Faculty Load.xlsx", strings.NewReader("payload"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "1700000000000-"))
	assert.True(t, strings.HasSuffix(name, "-Faculty_Load.xlsx"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestOpenAndDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.SaveUpload("load.csv", strings.NewReader("a,b"))
	require.NoError(t, err)

	f, err := store.Open(name)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.Delete(name))
	require.NoError(t, store.Delete(name))
	_, err = store.Open(name)
	assert.Error(t, err)
}

func TestRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("../secret")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, store.Delete(""), ErrInvalidName)
}

func TestCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	oldName, err := store.SaveUpload("old.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	freshName, err := store.SaveUpload("fresh.xlsx", strings.NewReader("y"))
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldName), past, past))

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{oldName}, deleted)
	_, err = os.Stat(filepath.Join(dir, freshName))
	assert.NoError(t, err)
}

func TestReady(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	require.NoError(t, store.Ready())

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, store.Ready())
}
