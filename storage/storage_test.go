package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoredNamesNeverCollide(t *testing.T) {
	store, err := New(t.TempDir())
	assert.NoError(t, err)

	const n = 200
	names := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Two leads uploading at once; names must be unique globally,
			// not per lead.
			names <- store.StoredName(uint(1+i%2), "statement.pdf")
		}(i)
	}
	wg.Wait()
	close(names)

	seen := map[string]bool{}
	for name := range names {
		assert.False(t, seen[name], "duplicate stored name %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, n)
}

func TestStoredNameKeepsExtension(t *testing.T) {
	store, err := New(t.TempDir())
	assert.NoError(t, err)

	name := store.StoredName(7, "Tax Return 2025.PDF")
	assert.Equal(t, ".pdf", filepath.Ext(name))
	assert.Contains(t, name, "lead-7-")
}

func TestSaveOpenRemove(t *testing.T) {
	store, err := New(t.TempDir())
	assert.NoError(t, err)

	name := store.StoredName(1, "doc.pdf")
	data := []byte("%PDF-1.4 content")
	assert.NoError(t, store.Save(name, data))

	f, err := store.Open(name)
	assert.NoError(t, err)
	read := make([]byte, len(data))
	f.Read(read)
	f.Close()
	assert.Equal(t, data, read)

	assert.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine; the file is already gone.
	assert.NoError(t, store.Remove(name))
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "documents")
	_, err := New(dir)
	assert.NoError(t, err)

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
