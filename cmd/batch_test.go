package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAddressFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	require.NoError(t, os.WriteFile(path, []byte(`
# batch for tuesday
140 West 28th Street | Manhattan
350 5th Avenue

89-01 Queens Boulevard | Queens
`), 0o644))

	entries, err := readAddressFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "140 West 28th Street", entries[0].Address)
	assert.Equal(t, "Manhattan", entries[0].Borough)
	assert.Equal(t, "350 5th Avenue", entries[1].Address)
	assert.Empty(t, entries[1].Borough)
	assert.Equal(t, "89-01 Queens Boulevard", entries[2].Address)
	assert.Equal(t, "Queens", entries[2].Borough)
}

func TestReadAddressFile_Missing(t *testing.T) {
	_, err := readAddressFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
