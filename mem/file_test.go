package mem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_FileRegionGrowAndPersist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heap.img")

	r, err := CreateFile(path)
	require.NoError(t, err)

	off, err := r.Sbrk(168)
	require.NoError(t, err)
	require.Equal(t, 0, off)
	require.Equal(t, 168, r.Size())

	data := r.Bytes()
	data[0] = 0x11
	data[167] = 0x22

	off, err = r.Sbrk(168)
	require.NoError(t, err)
	require.Equal(t, 168, off)

	// Contents written before the grow are still in place afterwards.
	data = r.Bytes()
	require.Equal(t, byte(0x11), data[0])
	require.Equal(t, byte(0x22), data[167])
	require.Zero(t, data[200])

	data[300] = 0x33
	require.NoError(t, r.Sync())
	require.NoError(t, r.Close())

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(336), st.Size())

	// Reopen and verify the image survived the round trip.
	r2, err := OpenFile(path)
	require.NoError(t, err)
	defer r2.Close()

	require.Equal(t, 336, r2.Size())
	data = r2.Bytes()
	require.Equal(t, byte(0x11), data[0])
	require.Equal(t, byte(0x22), data[167])
	require.Equal(t, byte(0x33), data[300])
}

func Test_FileRegionClosed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heap.img")

	r, err := CreateFile(path)
	require.NoError(t, err)
	_, err = r.Sbrk(64)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Sbrk(64)
	require.ErrorIs(t, err, ErrClosed)
}

func Test_FileRegionOpenEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heap.img")

	r, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r2, err := OpenFile(path)
	require.NoError(t, err)
	defer r2.Close()
	require.Equal(t, 0, r2.Size())
}
