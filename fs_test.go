package zipvfs

import (
	"archive/zip"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSConformsToFSTestSuite(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{
		{name: "a.txt", data: []byte("hello"), method: zip.Store},
		{name: "dir/b.txt", data: []byte("world"), method: zip.Deflate},
		{name: "dir/sub/c.txt", data: []byte("!"), method: zip.Store},
	})

	assert.NoError(t, fstest.TestFS(a.FS(), "a.txt", "dir/b.txt", "dir/sub/c.txt"))
}

func TestFSOpenFollowsSymlink(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{
		{name: "real.txt", data: []byte("payload"), method: zip.Store},
		{name: "link.txt", symlink: "real.txt", method: zip.Store},
	})

	f, err := a.FS().Open("link.txt")
	require.NoError(t, err)
	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}

func TestFSStatMissing(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{{name: "a.txt", data: []byte("x"), method: zip.Store}})

	_, err := fs.Stat(a.FS(), "missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
